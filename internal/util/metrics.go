package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders persisted",
	})

	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Total number of orders confirmed after stock deduction",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creation requests",
	}, []string{"step"})

	StockDeductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_deductions_total",
		Help: "Total number of successful stock deduction batches",
	})

	StockDeductionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_deductions_failed_total",
		Help: "Total number of failed stock deduction batches",
	}, []string{"reason"})

	StockDeductionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_deduction_latency_seconds",
		Help:    "Latency of stock deduction transactions",
		Buckets: prometheus.DefBuckets,
	})

	StockCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_cache_hits_total",
		Help: "Availability checks served from the Redis cache",
	})

	StockCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_cache_misses_total",
		Help: "Availability checks that fell through to the database",
	})

	PricingCalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Total number of pricing calculations",
	})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of notifications dispatched",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notification dispatch failures",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
