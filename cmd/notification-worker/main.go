package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fulfillment/config"
	"fulfillment/internal/broker"
	"fulfillment/internal/client"
	"fulfillment/internal/util"
	"fulfillment/internal/worker"
)

func main() {

	cfg := config.Load("")

	if err := util.InitLogger("notification-worker", cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting notification worker")

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	notifier := client.NewNotificationClient(cfg.Services.NotificationURL)

	w := worker.NewNotificationWorker(consumer, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")

	cancel()
	if err := w.Stop(); err != nil {
		log.Printf("Error closing consumer: %v", err)
	}

	log.Println("Worker exited")
}
