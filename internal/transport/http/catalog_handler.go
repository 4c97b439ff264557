package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/esencia-ar/backend/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalogSvc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc}
}

type OverrideRequestDTO struct {
	Brand     *string   `json:"brand,omitempty"`
	Name      *string   `json:"name,omitempty"`
	PriceUSD  *float64  `json:"price_usd,omitempty"`
	Scents    *[]string `json:"scents,omitempty"`
	MarginPct *int      `json:"margin_pct,omitempty"`
	Stock     *int      `json:"stock,omitempty"`
}

type BulkOverrideRequestDTO struct {
	Overrides map[string]OverrideRequestDTO `json:"overrides"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load catalog")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// ApplyOverride stores a partial edit for one product; absent fields are left
// untouched.
func (h *CatalogHandler) ApplyOverride(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req OverrideRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.catalog.ApplyOverride(r.Context(), toOverride(productID, req))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "unknown product")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store override")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func (h *CatalogHandler) ApplyOverridesBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkOverrideRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Overrides) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "overrides must not be empty")
		return
	}

	overrides := make([]*catalog.Override, 0, len(req.Overrides))
	for productID, dto := range req.Overrides {
		overrides = append(overrides, toOverride(productID, dto))
	}

	if err := h.catalog.ApplyOverrides(r.Context(), overrides); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store overrides")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func toOverride(productID string, dto OverrideRequestDTO) *catalog.Override {
	return &catalog.Override{
		ProductID: productID,
		Brand:     dto.Brand,
		Name:      dto.Name,
		PriceUSD:  dto.PriceUSD,
		Scents:    dto.Scents,
		MarginPct: dto.MarginPct,
		Stock:     dto.Stock,
	}
}
