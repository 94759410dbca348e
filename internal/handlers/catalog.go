package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tstore/storefront/internal/services"
)

type catalogHandler struct {
	catalog services.CatalogService
	coupons services.CouponService
}

func (h *catalogHandler) listItems(w http.ResponseWriter, r *http.Request) {
	query := services.ListItemsQuery{
		Search:       r.URL.Query().Get("q"),
		CategorySlug: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			query.Offset = offset
		}
	}

	items, err := h.catalog.ListItems(r.Context(), query)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *catalogHandler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetItemBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *catalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *catalogHandler) getCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}
