package client

import (
	"context"
	"fmt"
	"net/http"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// InventoryClient calls the inventory service.
type InventoryClient struct {
	baseURL string
	hc      *http.Client
}

// NewInventoryClient creates an inventory service client.
func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{baseURL: baseURL, hc: newHTTPClient()}
}

type checkStockResponse struct {
	Success bool                `json:"success"`
	Product *models.StockRecord `json:"product"`
}

// CheckStock retrieves the current stock snapshot for a product. The
// result is advisory: only the deduction itself is authoritative.
func (c *InventoryClient) CheckStock(ctx context.Context, productID int64) (*models.StockRecord, error) {
	url := fmt.Sprintf("%s/inventory/check/%d", c.baseURL, productID)

	var resp checkStockResponse
	if err := doJSON(ctx, c.hc, "inventory service", http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, httperr.New(httperr.KindBadGateway, "inventory service: response missing product")
	}
	return resp.Product, nil
}

type deductRequest struct {
	Products []models.ItemRequest `json:"products"`
}

type deductResponse struct {
	Success         bool                   `json:"success"`
	UpdatedProducts []models.StockMovement `json:"updated_products"`
}

// DeductStock deducts stock for the whole item list atomically. An
// error means no stock was taken for any item.
func (c *InventoryClient) DeductStock(ctx context.Context, items []models.ItemRequest) ([]models.StockMovement, error) {
	url := c.baseURL + "/inventory/deduct"

	var resp deductResponse
	if err := doJSON(ctx, c.hc, "inventory service", http.MethodPut, url, deductRequest{Products: items}, &resp); err != nil {
		return nil, err
	}
	return resp.UpdatedProducts, nil
}
