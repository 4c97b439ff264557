package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 2)
	// Unset margin is served with the default.
	assert.Equal(t, domain.DefaultMarginPct, products[1].MarginPct)
}

func TestApplyOverride_ThenListReflectsIt(t *testing.T) {
	env := newTestEnv(t)

	price := 22.0
	rec := env.do(t, "POST", "/api/v1/admin/products/musk-oud-100/overrides", OverrideRequestDTO{PriceUSD: &price})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Equal(t, 22.0, products[0].PriceUSD)
	assert.Equal(t, "Musk Oud", products[0].Name)
}

func TestApplyOverride_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	price := 22.0
	rec := env.do(t, "POST", "/api/v1/admin/products/nope/overrides", OverrideRequestDTO{PriceUSD: &price})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyOverridesBulk(t *testing.T) {
	env := newTestEnv(t)

	stock := 0
	name := "Citrus Vert Eté"
	rec := env.do(t, "POST", "/api/v1/admin/products/overrides", BulkOverrideRequestDTO{
		Overrides: map[string]OverrideRequestDTO{
			"musk-oud-100":   {Stock: &stock},
			"citrus-vert-50": {Name: &name},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/v1/products", nil)
	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Equal(t, 0, products[0].Stock)
	assert.Equal(t, "Citrus Vert Eté", products[1].Name)
}

func TestApplyOverridesBulk_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/v1/admin/products/overrides", BulkOverrideRequestDTO{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
