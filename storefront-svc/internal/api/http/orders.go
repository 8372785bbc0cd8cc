package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"zomatify/storefront-svc/internal/domain"
	"zomatify/storefront-svc/internal/service"

	"github.com/gorilla/mux"
)

// currentUserID writes a 401 and returns "" when the session is anonymous.
func currentUserID(w http.ResponseWriter, r *http.Request) string {
	state := sessionFrom(r).Auth.State()
	if state.User == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return ""
	}
	return state.User.ID
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(w, r)
	if userID == "" {
		return
	}

	var req domain.CheckoutRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := sessionFrom(r)
	order, err := h.Orders.Checkout(r.Context(), userID, sess.Cart.State(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrMixedRestaurants),
			errors.Is(err, service.ErrScheduleInPast):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Errorw("checkout failed", "user_id", userID, "session_id", sess.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to place order")
		}
		return
	}

	sess.Cart.ClearCart(r.Context())
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(w, r)
	if userID == "" {
		return
	}

	orders, err := h.Orders.List(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("failed to list orders", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeOrderError(w http.ResponseWriter, orderID int, err error) {
	if errors.Is(err, service.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	h.Logger.Errorw("failed to load order", "order_id", orderID, "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to load order")
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(w, r)
	if userID == "" {
		return
	}
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.Orders.Get(r.Context(), userID, id)
	if err != nil {
		h.writeOrderError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(w, r)
	if userID == "" {
		return
	}
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	qr, err := h.Orders.QRCode(r.Context(), userID, id)
	if err != nil {
		h.writeOrderError(w, id, err)
		return
	}
	if len(qr) == 0 {
		writeError(w, http.StatusNotFound, "QR code not available")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) getGroupOrder(w http.ResponseWriter, r *http.Request) {
	if currentUserID(w, r) == "" {
		return
	}

	group, err := h.Orders.GroupOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, "Group order not found")
			return
		}
		h.Logger.Errorw("failed to load group order", "group_order_id", mux.Vars(r)["id"], "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load group order")
		return
	}
	writeJSON(w, http.StatusOK, group)
}
