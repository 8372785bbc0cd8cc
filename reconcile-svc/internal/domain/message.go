package domain

import "time"

const (
	EventPaymentVerified = "payment_verified"

	PaymentStatusPaid = "paid"
)

// PaymentEvent is the message payment-svc publishes on the payments topic.
type PaymentEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Verified  bool      `json:"verified"`
	Timestamp time.Time `json:"timestamp"`
}
