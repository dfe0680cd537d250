package store

import (
	"context"
	"database/sql"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// CreateOrder persists an order header and all of its lines in one
// transaction. A failure at any line rolls back everything, so the
// store never holds a header without its full item set. The order's
// id and timestamps are filled in on success.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return httperr.Wrap(httperr.KindStorage, err, "failed to begin order transaction")
	}
	defer tx.Rollback()

	var key interface{}
	if order.IdempotencyKey != "" {
		key = order.IdempotencyKey
	}

	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (customer_id, total_amount, status, region, idempotency_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_id, created_at, updated_at`,
		order.CustomerID, order.TotalAmount, order.Status, order.Region, key)
	if err != nil {
		return httperr.Wrap(httperr.KindStorage, err, "failed to insert order")
	}

	for i := range items {
		items[i].OrderID = order.OrderID
		err := tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice, items[i].Subtotal)
		if err != nil {
			return httperr.Wrap(httperr.KindStorage, err, "failed to insert order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return httperr.Wrap(httperr.KindStorage, err, "failed to commit order")
	}
	return nil
}

// GetOrderByID retrieves an order header.
func (s *Store) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT order_id, customer_id, total_amount, status, region, COALESCE(idempotency_key, '') AS idempotency_key, created_at, updated_at FROM orders WHERE order_id = $1",
		orderID)
	if err == sql.ErrNoRows {
		return nil, httperr.Newf(httperr.KindNotFound, "order %d not found", orderID)
	}
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to read order")
	}
	return &order, nil
}

// GetOrderByIdempotencyKey retrieves an order by its idempotency key,
// or nil when no order carries the key.
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT order_id, customer_id, total_amount, status, region, COALESCE(idempotency_key, '') AS idempotency_key, created_at, updated_at FROM orders WHERE idempotency_key = $1",
		key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to read order by idempotency key")
	}
	return &order, nil
}

// GetOrderItems retrieves all lines of an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT id, order_id, product_id, quantity, unit_price, subtotal FROM order_items WHERE order_id = $1 ORDER BY id",
		orderID)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to read order items")
	}
	return items, nil
}

// ListOrdersByCustomer retrieves a customer's orders, newest first.
func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT order_id, customer_id, total_amount, status, region, COALESCE(idempotency_key, '') AS idempotency_key, created_at, updated_at FROM orders WHERE customer_id = $1 ORDER BY created_at DESC",
		customerID)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindStorage, err, "failed to list orders")
	}
	return orders, nil
}

// SetOrderStatus transitions an order to a new status.
func (s *Store) SetOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE order_id = $2",
		status, orderID)
	if err != nil {
		return httperr.Wrap(httperr.KindStorage, err, "failed to update order status")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return httperr.Newf(httperr.KindNotFound, "order %d not found", orderID)
	}
	return nil
}
