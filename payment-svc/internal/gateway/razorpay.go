package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"zomatify/payment-svc/internal/domain"
)

const DefaultBaseURL = "https://api.razorpay.com"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Error is a failure reported by the gateway itself.
type Error struct {
	StatusCode  int
	Code        string
	Description string
	Field       string
}

func (e *Error) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("payment gateway returned status %d", e.StatusCode)
}

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    HTTPClient
}

func NewClient(baseURL, keyID, keySecret string, client HTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    client,
	}
}

func (c *Client) CreateOrder(ctx context.Context, order domain.GatewayOrderRequest) (*domain.GatewayOrder, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, payload)
	}

	var created domain.GatewayOrder
	if err := json.Unmarshal(payload, &created); err != nil {
		return nil, fmt.Errorf("decode gateway order: %w", err)
	}
	return &created, nil
}

func decodeError(status int, payload []byte) error {
	var envelope struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
			Field       string `json:"field"`
		} `json:"error"`
	}
	gwErr := &Error{StatusCode: status}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		gwErr.Code = envelope.Error.Code
		gwErr.Description = envelope.Error.Description
		gwErr.Field = envelope.Error.Field
	}
	return gwErr
}
