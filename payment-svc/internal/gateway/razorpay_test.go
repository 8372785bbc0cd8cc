package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"zomatify/payment-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		var body domain.GatewayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(15050), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "receipt_1", body.Receipt)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.GatewayOrder{
			ID:       "order_123",
			Entity:   "order",
			Amount:   body.Amount,
			Currency: body.Currency,
			Receipt:  body.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "rzp_test_key", "secret", srv.Client())
	order, err := client.CreateOrder(context.Background(), domain.GatewayOrderRequest{
		Amount: 15050, Currency: "INR", Receipt: "receipt_1",
	})

	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(15050), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestClient_CreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad", "bad", srv.Client())
	_, err := client.CreateOrder(context.Background(), domain.GatewayOrderRequest{Amount: 100, Currency: "INR"})

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.Equal(t, "BAD_REQUEST_ERROR", gwErr.Code)
	assert.Equal(t, "Authentication failed", gwErr.Error())
}

func TestClient_CreateOrder_UnparseableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", srv.Client())
	_, err := client.CreateOrder(context.Background(), domain.GatewayOrderRequest{Amount: 100, Currency: "INR"})

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "payment gateway returned status 502", gwErr.Error())
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("", "k", "s", http.DefaultClient)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
