package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esencia-ar/backend/internal/assistant"
	"github.com/esencia-ar/backend/internal/catalog"
	"github.com/esencia-ar/backend/internal/checkout"
	"github.com/esencia-ar/backend/internal/clients/mercadopago"
	"github.com/esencia-ar/backend/internal/clients/scheduling"
	"github.com/esencia-ar/backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type fixedRateSource struct {
	rate float64
}

func (f fixedRateSource) Current(ctx context.Context) float64 { return f.rate }

type MockOrderStore struct {
	Created []*domain.Order
	Err     error
}

func (m *MockOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, order)
	return nil
}

type MockGateway struct {
	Pref *mercadopago.Preference
	Err  error
}

func (m *MockGateway) CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	return m.Pref, m.Err
}

type MockScheduler struct {
	Result *scheduling.ScheduleResult
	Err    error
}

func (m *MockScheduler) Schedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.ScheduleResult, error) {
	return m.Result, m.Err
}

type MockAssistantQuerier struct {
	Answer string
}

func (m *MockAssistantQuerier) Query(ctx context.Context, text string, rate float64, products []domain.Product) (string, error) {
	return m.Answer, nil
}

// --- harness ---

type testEnv struct {
	router chi.Router
	orders *MockOrderStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := []domain.Product{
		{ID: "musk-oud-100", Brand: "Esencia", Name: "Musk Oud", PriceUSD: 18, Scents: []string{"oud"}, MarginPct: 50, Stock: 10},
		{ID: "citrus-vert-50", Brand: "Esencia", Name: "Citrus Vert", PriceUSD: 7.5, Scents: []string{"bergamot"}, Stock: 4},
	}
	catalogSvc := catalog.NewService(base, catalog.NewMemoryOverrideRepository())

	rates := fixedRateSource{rate: 1200}
	sessions := checkout.NewStore(rates)
	orders := &MockOrderStore{}
	coordinator := checkout.NewCoordinator(
		orders,
		&MockGateway{Pref: &mercadopago.Preference{InitPoint: "https://mp.example/init"}},
		&MockScheduler{Result: &scheduling.ScheduleResult{Success: true, SchedulingID: "sched-1"}},
	)

	router := NewRouter(
		NewSessionHandler(sessions, coordinator, catalogSvc),
		NewCatalogHandler(catalogSvc),
		NewOrdersHandler(&MockOrderReader{}),
		NewAssistantHandler(assistant.NewStore(&MockAssistantQuerier{Answer: "ok"}), catalogSvc, rates),
		30*time.Second,
	)
	return &testEnv{router: router, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec := e.do(t, "POST", "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cart", resp.State)
	assert.Equal(t, 1200.0, resp.ExchangeRate)
	assert.False(t, resp.CreatedAt.IsZero())
	return resp.SessionID
}

func validShippingDTO() ShippingRequestDTO {
	return ShippingRequestDTO{
		Region:        "caba",
		FullName:      "Ana García",
		Phone:         "+54 11 5555 0000",
		Province:      "CABA",
		Locality:      "Balvanera",
		Address:       "Av. Corrientes 1234",
		DeliveryDate:  "2026-09-01", // a Tuesday
		PaymentMethod: "cash",
	}
}

// --- tests ---

func TestCreateAndGetSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "GET", "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/api/v1/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCartItem(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, int64(21600), resp.DisplayTotal)
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddCartItem_QuantityLimit(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	for i := 0; i < domain.MaxLineQuantity; i++ {
		rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "quantity_limit", errResp.Code)
}

func TestRemoveCartItem(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	rec := env.do(t, "DELETE", "/api/v1/sessions/"+id+"/cart/items/musk-oud-100", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
}

func TestAdvance_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvance_MissingShippingFields(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// No shipping data yet: the guard reports every missing field and the
	// session stays on shipping.
	rec = env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp AdvanceResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "shipping", resp.State)
	assert.Contains(t, resp.Missing, "full_name")
	assert.Contains(t, resp.Missing, "delivery_date")
}

func TestSetShipping_Validation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)

	bad := validShippingDTO()
	bad.Region = "mars"
	rec := env.do(t, "PUT", "/api/v1/sessions/"+id+"/shipping", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad = validShippingDTO()
	bad.Region = "interior"
	bad.PaymentMethod = "cash"
	rec = env.do(t, "PUT", "/api/v1/sessions/"+id+"/shipping", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "PUT", "/api/v1/sessions/"+id+"/shipping", validShippingDTO())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFullCashCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "PUT", "/api/v1/sessions/"+id+"/shipping", validShippingDTO())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "POST", "/api/v1/sessions/"+id+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConfirmResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.OrderID)
	assert.True(t, resp.Scheduled)
	assert.Equal(t, "sched-1", resp.SchedulingID)
	assert.Equal(t, "2026-09-01 (caba)", resp.DeliveryDate)

	require.Len(t, env.orders.Created, 1)

	// Cart cleared, session back at cart.
	rec = env.do(t, "GET", "/api/v1/sessions/"+id, nil)
	var snapshot SessionResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, "cart", snapshot.State)
	assert.Empty(t, snapshot.Items)
}

func TestBack_OnlyFromShipping(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	env.do(t, "POST", "/api/v1/sessions/"+id+"/cart/items", AddItemRequestDTO{ProductID: "musk-oud-100"})
	env.do(t, "POST", "/api/v1/sessions/"+id+"/advance", nil)

	rec = env.do(t, "POST", "/api/v1/sessions/"+id+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AdvanceResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cart", resp.State)
}

func TestConfirm_OnlyFromPayment(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	rec := env.do(t, "POST", "/api/v1/sessions/"+id+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssistantQueryFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/v1/assistant/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	sessionID := created["session_id"]
	require.NotEmpty(t, sessionID)

	rec = env.do(t, "POST", "/api/v1/assistant/sessions/"+sessionID+"/query", AskRequestDTO{Text: "something woody?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Response)

	rec = env.do(t, "GET", "/api/v1/assistant/sessions/"+sessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []assistant.Exchange
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, "something woody?", history[0].Question)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
