package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tstore/storefront/internal/services"
)

type ordersHandler struct {
	checkout services.CheckoutService
}

func (h *ordersHandler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	orders, err := h.checkout.ListOrders(r.Context(), identity.UID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *ordersHandler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	order, err := h.checkout.GetOrder(r.Context(), identity.UID, chi.URLParam(r, "refCode"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
