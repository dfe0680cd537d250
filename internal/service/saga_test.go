package service

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInventory struct {
	stock      map[int64]*models.StockRecord
	deductErr  error
	checkCalls int
	deductCall int
}

func (s *stubInventory) CheckStock(_ context.Context, productID int64) (*models.StockRecord, error) {
	s.checkCalls++
	rec, ok := s.stock[productID]
	if !ok {
		return nil, httperr.Newf(httperr.KindNotFound, "product %d not found", productID)
	}
	return rec, nil
}

func (s *stubInventory) DeductStock(_ context.Context, items []models.ItemRequest) ([]models.StockMovement, error) {
	s.deductCall++
	if s.deductErr != nil {
		return nil, s.deductErr
	}
	movements := make([]models.StockMovement, 0, len(items))
	for _, item := range items {
		rec, ok := s.stock[item.ProductID]
		if !ok {
			return nil, httperr.Newf(httperr.KindNotFound, "product %d not found", item.ProductID)
		}
		if rec.QuantityAvailable < item.Quantity {
			return nil, httperr.Newf(httperr.KindConflict, "insufficient stock for product %d", item.ProductID)
		}
		movements = append(movements, models.StockMovement{
			ProductID:        item.ProductID,
			PreviousQuantity: rec.QuantityAvailable,
			NewQuantity:      rec.QuantityAvailable - item.Quantity,
			Deducted:         item.Quantity,
		})
		rec.QuantityAvailable -= item.Quantity
	}
	return movements, nil
}

type stubPricing struct {
	result *models.PricingResult
	err    error
	calls  int
}

func (s *stubPricing) Calculate(_ context.Context, _ []models.ItemRequest, _ string) (*models.PricingResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubCustomers struct {
	known map[int64]bool
	calls int
}

func (s *stubCustomers) Lookup(_ context.Context, customerID int64) (*models.Customer, error) {
	s.calls++
	if !s.known[customerID] {
		return nil, httperr.Newf(httperr.KindNotFound, "customer %d not found", customerID)
	}
	return &models.Customer{CustomerID: customerID, Name: "Test", Email: "test@example.com"}, nil
}

type memOrders struct {
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	byKey  map[string]int64
	nextID int64
}

func newMemOrders() *memOrders {
	return &memOrders{
		orders: map[int64]*models.Order{},
		items:  map[int64][]models.OrderItem{},
		byKey:  map[string]int64{},
	}
}

func (m *memOrders) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	m.nextID++
	order.OrderID = m.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	m.orders[order.OrderID] = &stored
	m.items[order.OrderID] = items
	if order.IdempotencyKey != "" {
		m.byKey[order.IdempotencyKey] = order.OrderID
	}
	return nil
}

func (m *memOrders) SetOrderStatus(_ context.Context, orderID int64, status string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return httperr.Newf(httperr.KindNotFound, "order %d not found", orderID)
	}
	order.Status = status
	return nil
}

func (m *memOrders) GetOrderByID(_ context.Context, orderID int64) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, httperr.Newf(httperr.KindNotFound, "order %d not found", orderID)
	}
	return order, nil
}

func (m *memOrders) GetOrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	id, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	return m.orders[id], nil
}

func (m *memOrders) GetOrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *memOrders) ListOrdersByCustomer(_ context.Context, customerID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type stubEvents struct {
	confirmed int
	failed    int
}

func (s *stubEvents) PublishOrderConfirmed(_ context.Context, _ *models.OrderConfirmedEvent) error {
	s.confirmed++
	return nil
}

func (s *stubEvents) PublishOrderFailed(_ context.Context, _ *models.OrderFailedEvent) error {
	s.failed++
	return nil
}

func fixture() (*SagaOrchestrator, *memOrders, *stubInventory, *stubPricing, *stubCustomers, *stubEvents) {
	inventory := &stubInventory{stock: map[int64]*models.StockRecord{
		42: {ProductID: 42, ProductName: "widget", QuantityAvailable: 10, UnitPrice: 5.00},
	}}
	pricing := &stubPricing{result: &models.PricingResult{
		FinalTotal: 11.00,
		Items: []models.PricedItem{{
			ProductID: 42, Quantity: 2, UnitPrice: 5.00,
			Subtotal: 10.00, TaxAmount: 1.00, Total: 11.00,
		}},
	}}
	customers := &stubCustomers{known: map[int64]bool{1: true}}
	orders := newMemOrders()
	events := &stubEvents{}
	saga := NewSagaOrchestrator(orders, inventory, pricing, customers, events)
	return saga, orders, inventory, pricing, customers, events
}

func TestCreateOrderSuccess(t *testing.T) {
	saga, orders, inventory, _, _, events := fixture()

	view, err := saga.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerID: 1,
		Products:   []models.ItemRequest{{ProductID: 42, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, view.Status)
	assert.InDelta(t, 11.00, view.TotalAmount, 0.001)
	assert.Equal(t, "Default", view.Region)
	require.Len(t, view.Items, 1)
	assert.InDelta(t, 1.00, view.Items[0].TaxAmount, 0.001)

	stored := orders.orders[view.OrderID]
	require.NotNil(t, stored)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)

	assert.Equal(t, 8, inventory.stock[42].QuantityAvailable)
	assert.Equal(t, 1, inventory.deductCall)
	assert.Equal(t, 1, events.confirmed)
}

func TestCreateOrderUnknownCustomerHasNoSideEffects(t *testing.T) {
	saga, orders, inventory, pricing, _, _ := fixture()

	_, err := saga.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerID: 99,
		Products:   []models.ItemRequest{{ProductID: 42, Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	// fails before any stock or pricing call
	assert.Zero(t, inventory.checkCalls)
	assert.Zero(t, pricing.calls)
	assert.Empty(t, orders.orders)
	assert.Equal(t, 10, inventory.stock[42].QuantityAvailable)
}

func TestCreateOrderInsufficientStockFastFail(t *testing.T) {
	saga, orders, inventory, _, _, _ := fixture()
	inventory.stock[42].QuantityAvailable = 1

	_, err := saga.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerID: 1,
		Products:   []models.ItemRequest{{ProductID: 42, Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	assert.Empty(t, orders.orders)
	assert.Zero(t, inventory.deductCall)
	assert.Equal(t, 1, inventory.stock[42].QuantityAvailable)
}

func TestCreateOrderValidation(t *testing.T) {
	saga, _, inventory, _, customers, _ := fixture()

	cases := []CreateOrderRequest{
		{CustomerID: 0, Products: []models.ItemRequest{{ProductID: 42, Quantity: 1}}},
		{CustomerID: 1},
		{CustomerID: 1, Products: []models.ItemRequest{{ProductID: 42, Quantity: 0}}},
		{CustomerID: 1, Products: []models.ItemRequest{{ProductID: -1, Quantity: 1}}},
	}

	for _, req := range cases {
		req := req
		_, err := saga.CreateOrder(context.Background(), &req)
		require.Error(t, err)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	}
	assert.Zero(t, customers.calls)
	assert.Zero(t, inventory.checkCalls)
}

func TestCreateOrderPricingFailureHasNoSideEffects(t *testing.T) {
	saga, orders, inventory, pricing, _, _ := fixture()
	pricing.err = httperr.New(httperr.KindUnavailable, "pricing service unreachable")

	_, err := saga.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerID: 1,
		Products:   []models.ItemRequest{{ProductID: 42, Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindUnavailable))

	assert.Empty(t, orders.orders)
	assert.Zero(t, inventory.deductCall)
}

func TestCreateOrderDeductFailureCompensates(t *testing.T) {
	saga, orders, inventory, _, _, events := fixture()
	inventory.deductErr = httperr.New(httperr.KindConflict, "insufficient stock for product 42")

	_, err := saga.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerID: 1,
		Products:   []models.ItemRequest{{ProductID: 42, Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))

	// the persisted order is compensated to failed, never left confirmed
	require.Len(t, orders.orders, 1)
	for _, o := range orders.orders {
		assert.Equal(t, models.OrderStatusFailed, o.Status)
	}
	assert.Equal(t, 10, inventory.stock[42].QuantityAvailable)
	assert.Equal(t, 1, events.failed)
	assert.Zero(t, events.confirmed)
}

func TestCreateOrderIdempotentReplay(t *testing.T) {
	saga, orders, inventory, _, _, _ := fixture()

	req := &CreateOrderRequest{
		CustomerID:     1,
		Products:       []models.ItemRequest{{ProductID: 42, Quantity: 2}},
		IdempotencyKey: "replay-key",
	}

	first, err := saga.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	second, err := saga.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, orders.orders, 1)
	assert.Equal(t, 1, inventory.deductCall)
	assert.Equal(t, 8, inventory.stock[42].QuantityAvailable)
}
