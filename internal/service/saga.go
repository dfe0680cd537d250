package service

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
	"fulfillment/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryGateway is the inventory service as seen over the network.
type InventoryGateway interface {
	CheckStock(ctx context.Context, productID int64) (*models.StockRecord, error)
	DeductStock(ctx context.Context, items []models.ItemRequest) ([]models.StockMovement, error)
}

// PricingGateway is the pricing service as seen over the network.
type PricingGateway interface {
	Calculate(ctx context.Context, items []models.ItemRequest, region string) (*models.PricingResult, error)
}

// CustomerGateway is the customer directory as seen over the network.
type CustomerGateway interface {
	Lookup(ctx context.Context, customerID int64) (*models.Customer, error)
}

// OrderStore is the saga's local persistence. *store.Store satisfies it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	SetOrderStatus(ctx context.Context, orderID int64, status string) error
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
}

// EventPublisher publishes order lifecycle events; failures never fail
// the order.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error
	PublishOrderFailed(ctx context.Context, event *models.OrderFailedEvent) error
}

// SagaOrchestrator drives the order-creation workflow across the
// services: validate, check stock, price, persist pending, deduct
// stock, then confirm. There is no distributed transaction; the only
// cross-service guarantee is this ordering plus the compensating
// status write when the deduction fails.
type SagaOrchestrator struct {
	orders    OrderStore
	inventory InventoryGateway
	pricing   PricingGateway
	customers CustomerGateway
	events    EventPublisher
	logger    *zap.Logger
}

// NewSagaOrchestrator creates a saga orchestrator. events may be nil.
func NewSagaOrchestrator(
	orders OrderStore,
	inventory InventoryGateway,
	pricing PricingGateway,
	customers CustomerGateway,
	events EventPublisher,
) *SagaOrchestrator {
	return &SagaOrchestrator{
		orders:    orders,
		inventory: inventory,
		pricing:   pricing,
		customers: customers,
		events:    events,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest is the strongly-typed order creation body.
type CreateOrderRequest struct {
	CustomerID     int64                `json:"customer_id" binding:"required,min=1"`
	Products       []models.ItemRequest `json:"products" binding:"required,min=1,dive"`
	Region         string               `json:"region,omitempty"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
}

// OrderView is the order as returned to the client.
type OrderView struct {
	OrderID     int64               `json:"order_id"`
	CustomerID  int64               `json:"customer_id"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"total_amount"`
	Region      string              `json:"region"`
	Items       []models.PricedItem `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateOrder runs the saga for one request. Steps are strictly
// sequential; the first failure aborts the request. The order is
// persisted as pending before the deduction and moved to confirmed or
// failed afterwards, so a committed order never silently keeps stock
// it did not take.
func (so *SagaOrchestrator) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderView, error) {
	ctx, span := util.StartSpan(ctx, "SagaOrchestrator.CreateOrder")
	defer span.End()

	// VALIDATING
	if err := validateCreateOrder(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validating").Inc()
		return nil, err
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	existing, err := so.orders.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("checking idempotency: %w", err)
	}
	if existing != nil {
		so.logger.Info("Duplicate order request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Int64("order_id", existing.OrderID))
		return so.replayView(ctx, existing)
	}

	if _, err := so.customers.Lookup(ctx, req.CustomerID); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validating").Inc()
		return nil, fmt.Errorf("validating customer: %w", err)
	}

	region := req.Region
	if region == "" {
		region = DefaultRegion
	}

	// CHECKING_STOCK: advisory fast-fail. The deduction re-checks
	// under row locks.
	for _, item := range req.Products {
		rec, err := so.inventory.CheckStock(ctx, item.ProductID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("checking_stock").Inc()
			return nil, fmt.Errorf("checking stock: %w", err)
		}
		if rec.QuantityAvailable < item.Quantity {
			util.OrdersFailedTotal.WithLabelValues("checking_stock").Inc()
			return nil, httperr.Newf(httperr.KindConflict,
				"insufficient stock for product %d: available=%d, requested=%d",
				item.ProductID, rec.QuantityAvailable, item.Quantity)
		}
	}

	// PRICING
	pricing, err := so.pricing.Calculate(ctx, req.Products, region)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("pricing").Inc()
		return nil, fmt.Errorf("calculating pricing: %w", err)
	}

	priced := make(map[int64]models.PricedItem, len(pricing.Items))
	for _, it := range pricing.Items {
		priced[it.ProductID] = it
	}
	orderItems := make([]models.OrderItem, 0, len(req.Products))
	for _, item := range req.Products {
		p, ok := priced[item.ProductID]
		if !ok {
			// the stock check saw the product, so pricing should too
			util.OrdersFailedTotal.WithLabelValues("pricing").Inc()
			return nil, httperr.Newf(httperr.KindBadGateway,
				"pricing service: response missing product %d", item.ProductID)
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: p.UnitPrice,
			Subtotal:  p.Subtotal,
		})
	}

	// PERSISTING: the order stays pending until the deduction settles
	order := &models.Order{
		CustomerID:     req.CustomerID,
		TotalAmount:    pricing.FinalTotal,
		Status:         models.OrderStatusPending,
		Region:         region,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := so.orders.CreateOrder(ctx, order, orderItems); err != nil {
		util.OrdersFailedTotal.WithLabelValues("persisting").Inc()
		return nil, fmt.Errorf("persisting order: %w", err)
	}
	util.OrdersCreatedTotal.Inc()
	so.logger.Info("Order persisted pending deduction",
		zap.Int64("order_id", order.OrderID))

	// DEDUCTING
	if _, err := so.inventory.DeductStock(ctx, req.Products); err != nil {
		so.compensate(ctx, order, "deducting", err)
		util.OrdersFailedTotal.WithLabelValues("deducting").Inc()
		return nil, fmt.Errorf("deducting stock: %w", err)
	}

	// COMPLETE
	if err := so.orders.SetOrderStatus(ctx, order.OrderID, models.OrderStatusConfirmed); err != nil {
		// stock was taken; the order stays pending for reconciliation
		so.logger.Error("Failed to confirm order after deduction",
			zap.Int64("order_id", order.OrderID),
			zap.Error(err))
		util.OrdersFailedTotal.WithLabelValues("finalizing").Inc()
		return nil, fmt.Errorf("finalizing order: %w", err)
	}
	order.Status = models.OrderStatusConfirmed
	util.OrdersConfirmedTotal.Inc()

	so.publishConfirmed(ctx, order, orderItems)
	so.logger.Info("Order confirmed",
		zap.Int64("order_id", order.OrderID),
		zap.Float64("total_amount", order.TotalAmount))

	return &OrderView{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Region:      order.Region,
		Items:       pricing.Items,
		CreatedAt:   order.CreatedAt,
	}, nil
}

// compensate marks a pending order failed after a deduction failure.
// The order commit cannot be rolled back, so the status write is the
// compensating action.
func (so *SagaOrchestrator) compensate(ctx context.Context, order *models.Order, step string, cause error) {
	so.logger.Warn("Saga step failed after persist - compensating",
		zap.Int64("order_id", order.OrderID),
		zap.String("step", step),
		zap.Error(cause))

	if err := so.orders.SetOrderStatus(ctx, order.OrderID, models.OrderStatusFailed); err != nil {
		so.logger.Error("Compensation write failed, order left pending",
			zap.Int64("order_id", order.OrderID),
			zap.Error(err))
	}

	if so.events != nil {
		event := &models.OrderFailedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderFailed,
				Timestamp: time.Now(),
			},
			OrderID:    order.OrderID,
			CustomerID: order.CustomerID,
			Step:       step,
			Reason:     cause.Error(),
		}
		if err := so.events.PublishOrderFailed(ctx, event); err != nil {
			so.logger.Error("Failed to publish OrderFailed event", zap.Error(err))
		}
	}
}

func (so *SagaOrchestrator) publishConfirmed(ctx context.Context, order *models.Order, items []models.OrderItem) {
	if so.events == nil {
		return
	}

	eventItems := make([]models.OrderItemData, len(items))
	for i, it := range items {
		eventItems[i] = models.OrderItemData{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	event := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now(),
		},
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Region:      order.Region,
		Items:       eventItems,
	}
	if err := so.events.PublishOrderConfirmed(ctx, event); err != nil {
		so.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
	}
}

// replayView rebuilds a response for a duplicate request from the
// stored order.
func (so *SagaOrchestrator) replayView(ctx context.Context, order *models.Order) (*OrderView, error) {
	items, err := so.orders.GetOrderItems(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}

	viewItems := make([]models.PricedItem, len(items))
	for i, it := range items {
		viewItems[i] = models.PricedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
	}

	return &OrderView{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Region:      order.Region,
		Items:       viewItems,
		CreatedAt:   order.CreatedAt,
	}, nil
}

func validateCreateOrder(req *CreateOrderRequest) error {
	if req.CustomerID <= 0 {
		return httperr.New(httperr.KindValidation, "customer_id must be a positive integer")
	}
	if len(req.Products) == 0 {
		return httperr.New(httperr.KindValidation, "products list is required")
	}
	for _, p := range req.Products {
		if p.ProductID <= 0 {
			return httperr.Newf(httperr.KindValidation, "invalid product_id: %d", p.ProductID)
		}
		if p.Quantity <= 0 {
			return httperr.Newf(httperr.KindValidation, "invalid quantity for product %d", p.ProductID)
		}
	}
	return nil
}
