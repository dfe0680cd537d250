package client

import (
	"context"
	"fmt"
	"net/http"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"
)

// CustomerClient calls the customer directory, an external collaborator
// used only to check existence and resolve contact info.
type CustomerClient struct {
	baseURL string
	hc      *http.Client
}

// NewCustomerClient creates a customer directory client.
func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{baseURL: baseURL, hc: newHTTPClient()}
}

type customerResponse struct {
	Success  bool             `json:"success"`
	Customer *models.Customer `json:"customer"`
}

// Lookup retrieves a customer profile.
func (c *CustomerClient) Lookup(ctx context.Context, customerID int64) (*models.Customer, error) {
	url := fmt.Sprintf("%s/api/customers/%d", c.baseURL, customerID)

	var resp customerResponse
	if err := doJSON(ctx, c.hc, "customer service", http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Customer == nil {
		return nil, httperr.New(httperr.KindBadGateway, "customer service: response missing customer")
	}
	return resp.Customer, nil
}
