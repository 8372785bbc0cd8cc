package domain

import (
	"encoding/json"
	"time"
)

type CreateOrderRequest struct {
	Amount         json.RawMessage `json:"amount"`
	OrderReference string          `json:"orderReference"`
	Currency       string          `json:"currency"`
}

type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// GatewayOrderRequest carries the amount in minor currency units.
type GatewayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type GatewayOrder struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

type VerifyRequest struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

type VerifyResponse struct {
	Verified bool `json:"verified"`
}

type CredentialsReport struct {
	KeyIDPresent        bool   `json:"key_id_present"`
	KeySecretPresent    bool   `json:"key_secret_present"`
	KeyIDLength         int    `json:"key_id_length"`
	KeySecretLength     int    `json:"key_secret_length"`
	KeyIDPreview        string `json:"key_id_preview"`
	KeySecretPreview    string `json:"key_secret_preview"`
	KeyIDStartsWithTest bool   `json:"key_id_starts_with_test"`
	Environment         string `json:"environment"`
	Timestamp           string `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Type    string `json:"type,omitempty"`
}

type PaymentEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Verified  bool      `json:"verified"`
	Timestamp time.Time `json:"timestamp"`
}
