package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"zomatify/storefront-svc/internal/domain"
	"zomatify/storefront-svc/internal/service"

	"github.com/gorilla/mux"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Cart.State())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Cart.ClearCart(r.Context()))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	item, options, err := h.Menu.ResolveSelection(r.Context(), req.MenuItemID, req.OptionIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			writeError(w, http.StatusNotFound, "Menu item not found")
		case errors.Is(err, service.ErrMenuItemUnavailable):
			writeError(w, http.StatusConflict, "Menu item is not available")
		case errors.Is(err, service.ErrUnknownOption):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Errorw("failed to resolve menu item", "item_id", req.MenuItemID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to add item")
		}
		return
	}

	state := sessionFrom(r).Cart.AddItem(r.Context(), *item, req.Quantity, req.SpecialInstructions, options)
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) getCartItem(w http.ResponseWriter, r *http.Request) {
	item, ok := sessionFrom(r).Cart.GetItemByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// updateCartItemQuantity removes the item when quantity drops to zero or below.
func (h *Handler) updateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req domain.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart := sessionFrom(r).Cart
	if _, ok := cart.GetItemByID(id); !ok {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	writeJSON(w, http.StatusOK, cart.UpdateItemQuantity(r.Context(), id, req.Quantity))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Cart.RemoveItem(r.Context(), mux.Vars(r)["id"]))
}

func (h *Handler) updateCartItemInstructions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req domain.UpdateInstructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart := sessionFrom(r).Cart
	if _, ok := cart.GetItemByID(id); !ok {
		writeError(w, http.StatusNotFound, "Cart item not found")
		return
	}
	writeJSON(w, http.StatusOK, cart.UpdateItemInstructions(r.Context(), id, req.SpecialInstructions))
}
