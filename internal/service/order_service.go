package service

import (
	"context"

	"fulfillment/internal/models"
	"fulfillment/internal/util"

	"go.uber.org/zap"
)

// OrderService serves order reads. Writes go through the saga.
type OrderService struct {
	orders OrderStore
	logger *zap.Logger
}

// NewOrderService creates an order service.
func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{
		orders: orders,
		logger: util.GetLogger(),
	}
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders retrieves a customer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID int64) ([]models.Order, error) {
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}
