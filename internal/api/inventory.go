package api

import (
	"context"
	"net/http"
	"strconv"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
	"fulfillment/internal/store"

	"github.com/gin-gonic/gin"
)

// InventoryAPI is the inventory behaviour the handlers need.
// *service.InventoryService satisfies it.
type InventoryAPI interface {
	Check(ctx context.Context, productID int64) (*models.StockRecord, error)
	Deduct(ctx context.Context, items []models.ItemRequest) ([]models.StockMovement, error)
	List(ctx context.Context) ([]models.StockRecord, error)
	Add(ctx context.Context, name string, quantity int, unitPrice float64) (int64, error)
	Update(ctx context.Context, productID int64, upd store.ProductUpdate) error
}

// InventoryHandler exposes the inventory ledger over HTTP.
type InventoryHandler struct {
	inventory InventoryAPI
}

func NewInventoryHandler(inventory InventoryAPI) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// SetupRoutes registers the inventory routes
func (h *InventoryHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/inventory/check/:product_id", h.checkStock)
	router.PUT("/inventory/deduct", h.deductStock)
	router.GET("/inventory/all", h.listStock)
	router.POST("/inventory/add", h.addProduct)
	router.PUT("/inventory/update/:product_id", h.updateProduct)
}

func (h *InventoryHandler) checkStock(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, httperr.New(httperr.KindValidation, "product_id must be an integer"))
		return
	}

	record, err := h.inventory.Check(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": record,
	})
}

type deductRequest struct {
	Products []models.ItemRequest `json:"products" binding:"required,min=1,dive"`
}

func (h *InventoryHandler) deductStock(c *gin.Context) {
	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	movements, err := h.inventory.Deduct(c.Request.Context(), req.Products)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Stock deducted successfully",
		"updated_products": movements,
	})
}

func (h *InventoryHandler) listStock(c *gin.Context) {
	records, err := h.inventory.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(records),
		"products": records,
	})
}

type addProductRequest struct {
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=0"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
}

func (h *InventoryHandler) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	productID, err := h.inventory.Add(c.Request.Context(), req.ProductName, req.Quantity, req.UnitPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"product_id": productID,
	})
}

type updateProductRequest struct {
	ProductName *string  `json:"product_name"`
	Quantity    *int     `json:"quantity" binding:"omitempty,min=0"`
	UnitPrice   *float64 `json:"unit_price" binding:"omitempty,gt=0"`
}

func (h *InventoryHandler) updateProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		respondError(c, httperr.New(httperr.KindValidation, "product_id must be an integer"))
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.ProductName == nil && req.Quantity == nil && req.UnitPrice == nil {
		respondError(c, httperr.New(httperr.KindValidation, "no fields to update"))
		return
	}

	upd := store.ProductUpdate{
		Name:      req.ProductName,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	if err := h.inventory.Update(c.Request.Context(), productID, upd); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated",
	})
}
