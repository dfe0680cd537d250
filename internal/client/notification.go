package client

import (
	"context"
	"net/http"
)

// NotificationClient calls the notification sender. Sends are
// best-effort: callers log failures and move on.
type NotificationClient struct {
	baseURL string
	hc      *http.Client
}

// NewNotificationClient creates a notification sender client.
func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{baseURL: baseURL, hc: newHTTPClient()}
}

type sendNotificationRequest struct {
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message"`
}

// Send asks the notification sender to notify a customer about an
// order. The sender resolves contact info itself.
func (c *NotificationClient) Send(ctx context.Context, orderID, customerID int64, message string) error {
	url := c.baseURL + "/api/notifications/send"

	req := sendNotificationRequest{
		OrderID:    orderID,
		CustomerID: customerID,
		Message:    message,
	}
	return doJSON(ctx, c.hc, "notification service", http.MethodPost, url, req, nil)
}
