package api

import (
	"context"
	"net/http"

	"fulfillment/internal/models"

	"github.com/gin-gonic/gin"
)

// PricingAPI is satisfied by *service.PricingService.
type PricingAPI interface {
	Calculate(ctx context.Context, items []models.ItemRequest, region string) (*models.PricingResult, error)
}

// PricingHandler exposes the pricing calculator over HTTP.
type PricingHandler struct {
	pricing PricingAPI
}

func NewPricingHandler(pricing PricingAPI) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// SetupRoutes registers the pricing routes
func (h *PricingHandler) SetupRoutes(router *gin.Engine) {
	router.POST("/pricing/calculate", h.calculate)
}

type calculateRequest struct {
	Products []models.ItemRequest `json:"products" binding:"required,min=1,dive"`
	Region   string               `json:"region"`
}

func (h *PricingHandler) calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.pricing.Calculate(c.Request.Context(), req.Products, req.Region)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pricing": result,
	})
}
