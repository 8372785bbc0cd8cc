package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"zomatify/payment-svc/internal/domain"
	"zomatify/payment-svc/internal/gateway"
	"zomatify/payment-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Payments service.PaymentServiceInterface
	Logger   *zap.SugaredLogger
}

func NewHandler(payments service.PaymentServiceInterface, logger *zap.SugaredLogger) *Handler {
	return &Handler{Payments: payments, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.recoverer)

	r.HandleFunc("/api/payments/order", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/order", h.preflight).Methods(http.MethodOptions)
	r.HandleFunc("/api/payments/verify", h.verifyPayment).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/verify", h.preflight).Methods(http.MethodOptions)
	r.HandleFunc("/api/payments/debug-credentials", h.debugCredentials).Methods(http.MethodGet)
	r.HandleFunc("/api/payments/debug-credentials", h.preflight).Methods(http.MethodOptions)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "payment-svc"})
	}).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid amount"})
		return
	}

	order, err := h.Payments.CreateOrder(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid amount"})
		case errors.Is(err, service.ErrGatewayNotConfigured):
			writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Payment gateway credentials not configured"})
		default:
			resp := domain.ErrorResponse{
				Error:   "Failed to create order",
				Details: strings.TrimPrefix(err.Error(), service.ErrGatewayFailure.Error()+": "),
			}
			var gwErr *gateway.Error
			if errors.As(err, &gwErr) {
				resp.Details = gwErr.Error()
				resp.Type = gwErr.Code
			}
			writeJSON(w, http.StatusInternalServerError, resp)
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: service.ErrMissingFields.Error()})
		return
	}

	verified, err := h.Payments.Verify(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrSecretNotConfigured):
			writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Payment gateway secret not configured"})
		default:
			writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Payment verification failed", Details: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, domain.VerifyResponse{Verified: verified})
}

func (h *Handler) debugCredentials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Payments.CredentialsReport())
}

// preflight answers bare OPTIONS requests; real CORS preflights are
// short-circuited by the cors wrapper before reaching the router.
func (h *Handler) preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS,PATCH,DELETE,POST,PUT")
	w.Header().Set("Access-Control-Allow-Headers", "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version, Authorization")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if h.Logger != nil {
					h.Logger.Errorw("handler panic", "path", r.URL.Path, "panic", rec)
				}
				writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Error: "Internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, domain.ErrorResponse{Error: "Method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
