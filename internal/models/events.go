package models

import "time"

// Event types
const (
	EventTypeOrderConfirmed = "ORDER_CONFIRMED"
	EventTypeOrderFailed    = "ORDER_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderConfirmedEvent is published after stock has been deducted and
// the order moved to confirmed.
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	CustomerID  int64           `json:"customer_id"`
	TotalAmount float64         `json:"total_amount"`
	Region      string          `json:"region"`
	Items       []OrderItemData `json:"items"`
}

// OrderFailedEvent is published when a saga step failed after the order
// header was already persisted.
type OrderFailedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Step       string `json:"step"`
	Reason     string `json:"reason"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
