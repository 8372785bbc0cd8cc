package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"zomatify/payment-svc/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultCurrency    = "INR"
	DefaultEnvironment = "development"
	testKeyPrefix      = "rzp_test_"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMissingFields        = errors.New("missing required fields: paymentId, orderId, signature")
	ErrGatewayNotConfigured = errors.New("payment gateway credentials not configured")
	ErrSecretNotConfigured  = errors.New("payment gateway secret not configured")
	ErrGatewayFailure       = errors.New("failed to create order")
)

type Credentials struct {
	KeyID     string
	KeySecret string
}

type PaymentService struct {
	creds       Credentials
	environment string
	gateway     OrderGateway
	ledger      PaymentLedger
	publisher   PaymentPublisher
	logger      *zap.SugaredLogger
	now         func() time.Time
}

// NewPaymentService wires the bridge. ledger and publisher may be nil.
func NewPaymentService(creds Credentials, environment string, gateway OrderGateway, ledger PaymentLedger, publisher PaymentPublisher, logger *zap.SugaredLogger) *PaymentService {
	if environment == "" {
		environment = DefaultEnvironment
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PaymentService{
		creds:       creds,
		environment: environment,
		gateway:     gateway,
		ledger:      ledger,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// ParseAmount accepts a JSON number or a numeric string and requires a positive value.
func ParseAmount(raw json.RawMessage) (float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, ErrInvalidAmount
	}

	var amount float64
	if err := json.Unmarshal(raw, &amount); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, ErrInvalidAmount
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount = parsed
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// ToMinorUnits converts a major-unit amount to paise/cents. Amounts that round
// below one minor unit or do not fit in an int64 are rejected.
func ToMinorUnits(amount float64) (int64, error) {
	scaled := math.Round(amount * 100)
	if math.IsNaN(scaled) || scaled >= math.MaxInt64 || scaled < 1 {
		return 0, ErrInvalidAmount
	}
	return int64(scaled), nil
}

func (s *PaymentService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.OrderResponse, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	minor, err := ToMinorUnits(amount)
	if err != nil {
		return nil, err
	}

	if s.creds.KeyID == "" || s.creds.KeySecret == "" {
		s.logger.Errorw("gateway credentials missing",
			"key_id_present", s.creds.KeyID != "",
			"key_secret_present", s.creds.KeySecret != "")
		return nil, ErrGatewayNotConfigured
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	receipt := req.OrderReference
	if receipt == "" {
		receipt = "receipt_" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}

	order, err := s.gateway.CreateOrder(ctx, domain.GatewayOrderRequest{
		Amount:   minor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		s.logger.Errorw("gateway order creation failed", "receipt", receipt, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGatewayFailure, err)
	}

	if s.ledger != nil {
		if err := s.ledger.RecordOrder(ctx, order); err != nil {
			s.logger.Warnw("failed to record payment order", "order_id", order.ID, "error", err)
		}
	}

	s.logger.Infow("payment order created", "order_id", order.ID, "amount", order.Amount, "currency", order.Currency)

	return &domain.OrderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   order.Status,
	}, nil
}

// Signature returns the hex HMAC-SHA256 of "orderID|paymentID".
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) Verify(ctx context.Context, req domain.VerifyRequest) (bool, error) {
	if req.PaymentID == "" || req.OrderID == "" || req.Signature == "" {
		return false, ErrMissingFields
	}
	if s.creds.KeySecret == "" {
		s.logger.Errorw("gateway secret missing, cannot verify payment", "order_id", req.OrderID)
		return false, ErrSecretNotConfigured
	}

	expected := Signature(s.creds.KeySecret, req.OrderID, req.PaymentID)
	verified := hmac.Equal([]byte(expected), []byte(req.Signature))

	if s.ledger != nil {
		if err := s.ledger.RecordVerification(ctx, req.OrderID, req.PaymentID, verified); err != nil {
			s.logger.Warnw("failed to record verification", "order_id", req.OrderID, "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPayment(ctx, domain.PaymentEvent{
			Type:      "payment_verified",
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Verified:  verified,
			Timestamp: s.now(),
		}); err != nil {
			s.logger.Warnw("failed to publish payment event", "order_id", req.OrderID, "error", err)
		}
	}

	s.logger.Infow("payment verification", "order_id", req.OrderID, "payment_id", req.PaymentID, "verified", verified)
	return verified, nil
}

func (s *PaymentService) CredentialsReport() domain.CredentialsReport {
	return domain.CredentialsReport{
		KeyIDPresent:        s.creds.KeyID != "",
		KeySecretPresent:    s.creds.KeySecret != "",
		KeyIDLength:         len(s.creds.KeyID),
		KeySecretLength:     len(s.creds.KeySecret),
		KeyIDPreview:        Mask(s.creds.KeyID),
		KeySecretPreview:    Mask(s.creds.KeySecret),
		KeyIDStartsWithTest: strings.HasPrefix(s.creds.KeyID, testKeyPrefix),
		Environment:         s.environment,
		Timestamp:           s.now().UTC().Format(time.RFC3339),
	}
}

// Mask keeps the first and last four characters. Values too short to hide
// anything are fully starred.
func Mask(value string) string {
	switch {
	case value == "":
		return "NOT_SET"
	case len(value) <= 8:
		return strings.Repeat("*", len(value))
	default:
		return value[:4] + "..." + value[len(value)-4:]
	}
}
