package handlers

import (
	"net/http"

	"github.com/tstore/storefront/internal/platform/httpx"
	"github.com/tstore/storefront/internal/services"
)

type refundsHandler struct {
	refunds services.RefundService
}

type requestRefundRequest struct {
	RefCode string `json:"ref_code"`
	Reason  string `json:"reason"`
	Email   string `json:"email"`
}

func (h *refundsHandler) request(w http.ResponseWriter, r *http.Request) {
	var req requestRefundRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "malformed request body", http.StatusBadRequest))
		return
	}

	refund, err := h.refunds.RequestRefund(r.Context(), services.RequestRefundCommand{
		RefCode: req.RefCode,
		Reason:  req.Reason,
		Email:   req.Email,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, refund)
}
