package handlers

import (
	"net/http"

	"github.com/tstore/storefront/internal/platform/httpx"
	"github.com/tstore/storefront/internal/services"
)

type checkoutHandler struct {
	checkout services.CheckoutService
}

type finalizeRequest struct {
	StreetAddress string `json:"street_address"`
	Country       string `json:"country"`
	Zip           string `json:"zip"`
	PaymentOption string `json:"payment_option"`
	OrderID       string `json:"order_id"`
}

func (h *checkoutHandler) finalize(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(r.Context(), w)
	if !ok {
		return
	}

	var req finalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "malformed request body", http.StatusBadRequest))
		return
	}

	finalized, err := h.checkout.Finalize(r.Context(), services.FinalizeCommand{
		UserID:        identity.UID,
		StreetAddress: req.StreetAddress,
		Country:       req.Country,
		Zip:           req.Zip,
		PaymentOption: req.PaymentOption,
		OrderID:       req.OrderID,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, finalized)
}
