package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/httperr"
	"fulfillment/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStockSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/inventory/check/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"product": map[string]interface{}{
				"product_id":         42,
				"product_name":       "widget",
				"quantity_available": 10,
				"unit_price":         5.00,
				"in_stock":           true,
			},
		})
	}))
	defer srv.Close()

	c := NewInventoryClient(srv.URL)
	rec, err := c.CheckStock(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.ProductID)
	assert.Equal(t, 10, rec.QuantityAvailable)
	assert.InDelta(t, 5.00, rec.UnitPrice, 0.001)
}

func TestCheckStockNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "product 42 not found",
		})
	}))
	defer srv.Close()

	c := NewInventoryClient(srv.URL)
	_, err := c.CheckStock(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
	assert.Contains(t, err.Error(), "product 42 not found")
}

func TestDeductStockInsufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "insufficient stock for product 42: available=1, requested=2",
		})
	}))
	defer srv.Close()

	c := NewInventoryClient(srv.URL)
	_, err := c.DeductStock(context.Background(), []models.ItemRequest{{ProductID: 42, Quantity: 2}})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
}

func TestDeductStockUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewInventoryClient(srv.URL)
	_, err := c.DeductStock(context.Background(), []models.ItemRequest{{ProductID: 1, Quantity: 1}})
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindUnavailable))
}

func TestPricingCalculate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pricing/calculate", r.URL.Path)

		var req calculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Egypt", req.Region)
		require.Len(t, req.Products, 1)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"pricing": map[string]interface{}{
				"final_total": 11.00,
				"items": []map[string]interface{}{{
					"product_id":          42,
					"quantity":            2,
					"unit_price":          5.00,
					"subtotal":            10.00,
					"discount_percentage": 0,
					"tax_amount":          1.00,
					"total":               11.00,
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewPricingClient(srv.URL)
	result, err := c.Calculate(context.Background(), []models.ItemRequest{{ProductID: 42, Quantity: 2}}, "Egypt")
	require.NoError(t, err)
	assert.InDelta(t, 11.00, result.FinalTotal, 0.001)
	require.Len(t, result.Items, 1)
	assert.InDelta(t, 1.00, result.Items[0].TaxAmount, 0.001)
}

func TestPricingMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewPricingClient(srv.URL)
	_, err := c.Calculate(context.Background(), []models.ItemRequest{{ProductID: 1, Quantity: 1}}, "")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindBadGateway))
}

func TestCustomerLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers/7", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"customer": map[string]interface{}{
				"customer_id": 7,
				"name":        "Ada",
				"email":       "ada@example.com",
			},
		})
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL)
	cust, err := c.Lookup(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ada", cust.Name)
}

func TestCustomerLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "Customer 7 not found"})
	}))
	defer srv.Close()

	c := NewCustomerClient(srv.URL)
	_, err := c.Lookup(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestNotificationSend(t *testing.T) {
	var got sendNotificationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := NewNotificationClient(srv.URL)
	err := c.Send(context.Background(), 12, 7, "Order #12 confirmed")
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.OrderID)
	assert.Equal(t, int64(7), got.CustomerID)
}
