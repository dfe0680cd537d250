package client

import (
	"context"
	"net/http"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// PricingClient calls the pricing service.
type PricingClient struct {
	baseURL string
	hc      *http.Client
}

// NewPricingClient creates a pricing service client.
func NewPricingClient(baseURL string) *PricingClient {
	return &PricingClient{baseURL: baseURL, hc: newHTTPClient()}
}

type calculateRequest struct {
	Products []models.ItemRequest `json:"products"`
	Region   string               `json:"region,omitempty"`
}

type calculateResponse struct {
	Success bool                  `json:"success"`
	Pricing *models.PricingResult `json:"pricing"`
}

// Calculate computes the priced breakdown for an item list.
func (c *PricingClient) Calculate(ctx context.Context, items []models.ItemRequest, region string) (*models.PricingResult, error) {
	url := c.baseURL + "/pricing/calculate"

	var resp calculateResponse
	if err := doJSON(ctx, c.hc, "pricing service", http.MethodPost, url, calculateRequest{Products: items, Region: region}, &resp); err != nil {
		return nil, err
	}
	if resp.Pricing == nil {
		return nil, httperr.New(httperr.KindBadGateway, "pricing service: response missing pricing")
	}
	return resp.Pricing, nil
}
