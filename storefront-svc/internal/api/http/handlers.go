package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"zomatify/storefront-svc/internal/domain"
	"zomatify/storefront-svc/internal/service"
	"zomatify/storefront-svc/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SessionProvider interface {
	Get(ctx context.Context, id string) *session.Session
}

type Handler struct {
	Sessions SessionProvider
	Menu     service.MenuServiceInterface
	Orders   service.OrderServiceInterface
	Logger   *zap.SugaredLogger
}

func NewHandler(sessions SessionProvider, menu service.MenuServiceInterface, orders service.OrderServiceInterface, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		Sessions: sessions,
		Menu:     menu,
		Orders:   orders,
		Logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.recoverer)

	r.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{restaurantId}/menu", h.getMenu).Methods(http.MethodGet)
	r.HandleFunc("/api/menu/{itemId}", h.getMenuItem).Methods(http.MethodGet)

	s := r.NewRoute().Subrouter()
	s.Use(h.withSession)

	s.HandleFunc("/api/cart", h.getCart).Methods(http.MethodGet)
	s.HandleFunc("/api/cart", h.clearCart).Methods(http.MethodDelete)
	s.HandleFunc("/api/cart/items", h.addCartItem).Methods(http.MethodPost)
	s.HandleFunc("/api/cart/items/{id}", h.getCartItem).Methods(http.MethodGet)
	s.HandleFunc("/api/cart/items/{id}", h.updateCartItemQuantity).Methods(http.MethodPatch)
	s.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods(http.MethodDelete)
	s.HandleFunc("/api/cart/items/{id}/instructions", h.updateCartItemInstructions).Methods(http.MethodPut)

	s.HandleFunc("/api/auth/state", h.authState).Methods(http.MethodGet)
	s.HandleFunc("/api/auth/signin", h.signIn).Methods(http.MethodPost)
	s.HandleFunc("/api/auth/signup", h.signUp).Methods(http.MethodPost)
	s.HandleFunc("/api/auth/signout", h.signOut).Methods(http.MethodPost)
	s.HandleFunc("/api/auth/profile", h.updateProfile).Methods(http.MethodPatch)

	s.HandleFunc("/api/orders/checkout", h.checkout).Methods(http.MethodPost)
	s.HandleFunc("/api/orders", h.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/api/orders/{id}", h.getOrder).Methods(http.MethodGet)
	s.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods(http.MethodGet)
	s.HandleFunc("/api/group-orders/{id}", h.getGroupOrder).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := strconv.Atoi(mux.Vars(r)["restaurantId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid restaurant id")
		return
	}

	items, err := h.Menu.ListMenu(r.Context(), restaurantID)
	if err != nil {
		h.Logger.Errorw("failed to list menu", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load menu")
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	item, err := h.Menu.GetMenuItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		h.Logger.Errorw("failed to get menu item", "item_id", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load menu item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// decodeOptional accepts an empty body.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Logger.Errorw("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
