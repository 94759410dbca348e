package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tstore/storefront/internal/platform/auth"
	"github.com/tstore/storefront/internal/platform/httpx"
	"github.com/tstore/storefront/internal/services"
)

type cartHandler struct {
	cart services.CartService
}

// requireIdentity pulls the authenticated user from context. The auth
// middleware guards these routes, so a miss means a wiring bug.
func requireIdentity(ctx context.Context, w http.ResponseWriter) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "missing identity", http.StatusUnauthorized))
		return auth.Identity{}, false
	}
	return identity, true
}

func (h *cartHandler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	view, err := h.cart.GetOpenOrder(r.Context(), identity.UID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addItemRequest struct {
	Item string `json:"item"`
}

func (h *cartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "malformed request body", http.StatusBadRequest))
		return
	}

	view, err := h.cart.AddToCart(r.Context(), identity.UID, req.Item)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *cartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	view, err := h.cart.RemoveFromCart(r.Context(), identity.UID, chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *cartHandler) decrementItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	view, err := h.cart.DecrementInCart(r.Context(), identity.UID, chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *cartHandler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	var req applyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "malformed request body", http.StatusBadRequest))
		return
	}

	view, err := h.cart.ApplyCoupon(r.Context(), identity.UID, req.Code)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
