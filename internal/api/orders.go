package api

import (
	"context"
	"net/http"
	"strconv"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
	"fulfillment/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderCreator runs the order-creation workflow.
// *service.SagaOrchestrator satisfies it.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req *service.CreateOrderRequest) (*service.OrderView, error)
}

// OrderReader serves stored orders. *service.OrderService satisfies it.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error)
	ListOrders(ctx context.Context, customerID int64) ([]models.Order, error)
}

// OrderHandler exposes order creation and retrieval over HTTP.
type OrderHandler struct {
	creator OrderCreator
	reader  OrderReader
}

func NewOrderHandler(creator OrderCreator, reader OrderReader) *OrderHandler {
	return &OrderHandler{creator: creator, reader: reader}
}

// SetupRoutes registers the order routes
func (h *OrderHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/orders/create", h.createOrder)
	router.GET("/orders/:order_id", h.getOrder)
	router.GET("/orders", h.listOrders)
}

func (h *OrderHandler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	view, err := h.creator.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   view,
	})
}

func (h *OrderHandler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		respondError(c, httperr.New(httperr.KindValidation, "order_id must be an integer"))
		return
	}

	order, items, err := h.reader.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"items":   items,
	})
}

func (h *OrderHandler) listOrders(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil || customerID <= 0 {
		respondError(c, httperr.New(httperr.KindValidation, "customer_id query parameter is required"))
		return
	}

	orders, err := h.reader.ListOrders(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}
