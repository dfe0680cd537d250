package models

import "time"

// StockRecord is a row of the inventory ledger.
type StockRecord struct {
	ProductID         int64     `db:"product_id" json:"product_id"`
	ProductName       string    `db:"product_name" json:"product_name"`
	QuantityAvailable int       `db:"quantity_available" json:"quantity_available"`
	UnitPrice         float64   `db:"unit_price" json:"unit_price"`
	InStock           bool      `db:"-" json:"in_stock"`
	LastUpdated       time.Time `db:"last_updated" json:"last_updated"`
}

// ItemRequest identifies a product and quantity in an order or deduction.
type ItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// StockMovement reports one product's deduction within a batch.
type StockMovement struct {
	ProductID        int64 `json:"product_id"`
	PreviousQuantity int   `json:"previous_quantity"`
	NewQuantity      int   `json:"new_quantity"`
	Deducted         int   `json:"deducted"`
}

// PricingRule grants a discount once the ordered quantity reaches the
// rule's threshold.
type PricingRule struct {
	ID                 int64   `db:"id" json:"id"`
	ProductID          int64   `db:"product_id" json:"product_id"`
	MinQuantity        int     `db:"min_quantity" json:"min_quantity"`
	DiscountPercentage float64 `db:"discount_percentage" json:"discount_percentage"`
}

// TaxRate is a per-region tax percentage. A "Default" row always exists.
type TaxRate struct {
	Region  string  `db:"region" json:"region"`
	TaxRate float64 `db:"tax_rate" json:"tax_rate"`
}

// PricedItem is one line of a pricing breakdown. Subtotal is
// post-discount, pre-tax. Values are not rounded per item.
type PricedItem struct {
	ProductID          int64   `json:"product_id"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	Subtotal           float64 `json:"subtotal"`
	DiscountPercentage float64 `json:"discount_percentage"`
	TaxAmount          float64 `json:"tax_amount"`
	Total              float64 `json:"total"`
}

// PricingResult is the full breakdown for an item list. FinalTotal is
// rounded to 2 decimal places; item values keep full precision.
type PricingResult struct {
	FinalTotal float64      `json:"final_total"`
	Items      []PricedItem `json:"items"`
}

// Order is a persisted order header.
type Order struct {
	OrderID        int64     `db:"order_id" json:"order_id"`
	CustomerID     int64     `db:"customer_id" json:"customer_id"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
	Status         string    `db:"status" json:"status"`
	Region         string    `db:"region" json:"region"`
	IdempotencyKey string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is one persisted order line. UnitPrice and Subtotal are the
// values at order time, not live prices.
type OrderItem struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID int64   `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// Customer is the customer directory's wire representation. The
// directory is an external collaborator; this type is read-only here.
type Customer struct {
	CustomerID    int64  `json:"customer_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LoyaltyPoints int    `json:"loyalty_points"`
}

// Order statuses. An order is persisted as pending, then moved to
// confirmed or failed after the stock deduction settles.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)
