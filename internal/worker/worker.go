package worker

import (
	"context"
	"fmt"

	"fulfillment/internal/broker"
	"fulfillment/internal/models"
	"fulfillment/internal/util"

	"go.uber.org/zap"
)

// Notifier sends a customer-facing message for an order.
// *client.NotificationClient satisfies it.
type Notifier interface {
	Send(ctx context.Context, orderID, customerID int64, message string) error
}

// NotificationWorker consumes order lifecycle events and forwards
// customer notifications. Delivery is best-effort: a failed send is
// logged and the offset is committed anyway, so a broken notification
// service never wedges the consumer group.
type NotificationWorker struct {
	consumer *broker.Consumer
	handler  *broker.EventHandler
	notifier Notifier
	logger   *zap.Logger
}

// NewNotificationWorker creates a notification worker.
func NewNotificationWorker(consumer *broker.Consumer, notifier Notifier) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		notifier: notifier,
		logger:   util.GetLogger(),
	}

	handler := broker.NewEventHandler()
	handler.OnOrderConfirmed(w.handleOrderConfirmed)
	handler.OnOrderFailed(w.handleOrderFailed)
	w.handler = handler

	return w
}

// Start consumes events until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop closes the underlying consumer.
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	message := fmt.Sprintf("Order #%d confirmed. Total: %.2f", event.OrderID, event.TotalAmount)
	w.send(ctx, event.OrderID, event.CustomerID, message)
	return nil
}

func (w *NotificationWorker) handleOrderFailed(ctx context.Context, event *models.OrderFailedEvent) error {
	message := fmt.Sprintf("Order #%d could not be completed: %s", event.OrderID, event.Reason)
	w.send(ctx, event.OrderID, event.CustomerID, message)
	return nil
}

func (w *NotificationWorker) send(ctx context.Context, orderID, customerID int64, message string) {
	if err := w.notifier.Send(ctx, orderID, customerID, message); err != nil {
		util.NotificationsFailedTotal.Inc()
		w.logger.Error("Failed to send notification",
			zap.Int64("order_id", orderID),
			zap.Int64("customer_id", customerID),
			zap.Error(err))
		return
	}
	util.NotificationsSentTotal.Inc()
	w.logger.Info("Notification sent",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID))
}
