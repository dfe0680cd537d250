// Package client contains the HTTP clients used to reach the other
// services. Every call is a synchronous round trip with a fixed
// timeout and no retries; a timeout or connection failure is treated
// the same as an explicit error response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/httperr"
)

const requestTimeout = 5 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

type errorBody struct {
	Error string `json:"error"`
}

// doJSON performs one JSON round trip against a collaborator and maps
// failures onto the shared error taxonomy.
func doJSON(ctx context.Context, hc *http.Client, service, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return httperr.Wrapf(httperr.KindStorage, err, "%s: failed to encode request", service)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return httperr.Wrapf(httperr.KindStorage, err, "%s: failed to build request", service)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return httperr.Wrapf(httperr.KindUnavailable, err, "%s unreachable", service)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return httperr.Wrapf(httperr.KindBadGateway, err, "%s: failed to read response", service)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(string(data))
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return httperr.Newf(kindForStatus(resp.StatusCode), "%s: %s", service, msg)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return httperr.Wrapf(httperr.KindBadGateway, err, "%s: malformed response", service)
		}
	}
	return nil
}

// kindForStatus classifies a collaborator's error status so it can be
// forwarded without reinterpretation.
func kindForStatus(status int) httperr.Kind {
	switch {
	case status == http.StatusNotFound:
		return httperr.KindNotFound
	case status == http.StatusBadRequest:
		return httperr.KindConflict
	case status == http.StatusServiceUnavailable:
		return httperr.KindUnavailable
	case status >= http.StatusInternalServerError:
		return httperr.KindStorage
	default:
		return httperr.KindBadGateway
	}
}
