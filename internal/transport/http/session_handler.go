package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/esencia-ar/backend/internal/cart"
	"github.com/esencia-ar/backend/internal/catalog"
	"github.com/esencia-ar/backend/internal/checkout"
	"github.com/esencia-ar/backend/internal/clients/mercadopago"
	"github.com/esencia-ar/backend/internal/domain"
	"github.com/esencia-ar/backend/internal/pricing"
	"github.com/go-chi/chi/v5"
)

func pricingLineTotal(line domain.CartLine, rate float64) (int64, error) {
	return pricing.ToLocal(line.Product.PriceUSD*float64(line.Quantity), rate)
}

// SessionHandler serves the checkout pipeline: session lifecycle, cart
// mutations and the submission endpoint.
type SessionHandler struct {
	sessions    *checkout.Store
	coordinator *checkout.Coordinator
	catalog     *catalog.Service
}

func NewSessionHandler(sessions *checkout.Store, coordinator *checkout.Coordinator, catalogSvc *catalog.Service) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		coordinator: coordinator,
		catalog:     catalogSvc,
	}
}

type CartLineDTO struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitUSD     float64 `json:"unit_price_usd"`
	LineARS     int64   `json:"line_total_ars"`
}

type SessionResponseDTO struct {
	SessionID    string        `json:"session_id"`
	State        string        `json:"state"`
	ExchangeRate float64       `json:"exchange_rate"`
	Processing   bool          `json:"processing"`
	Items        []CartLineDTO `json:"items"`
	DisplayTotal int64         `json:"display_total_ars"`
	CreatedAt    time.Time     `json:"created_at"`
}

type AdvanceResponseDTO struct {
	State   string   `json:"state"`
	Missing []string `json:"missing,omitempty"`
}

type ShippingRequestDTO struct {
	Region        string `json:"region"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	Province      string `json:"province"`
	Locality      string `json:"locality"`
	Address       string `json:"address"`
	DeliveryDate  string `json:"delivery_date,omitempty"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method"`
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type ConfirmResponseDTO struct {
	OrderID      string `json:"order_id"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	DeliveryDate string `json:"delivery_date"`
	Scheduled    bool   `json:"scheduled"`
	SchedulingID string `json:"scheduling_id,omitempty"`
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create(r.Context())
	respondJSON(w, http.StatusCreated, h.sessionDTO(session))
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessionDTO(session))
}

// Advance moves the session forward one step. A blocked shipping -> payment
// transition returns the missing field names instead of advancing.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	vr, err := session.Advance()
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cannot advance with an empty cart")
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", "session cannot advance from its current step")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	resp := AdvanceResponseDTO{State: string(session.State()), Missing: vr.Missing}
	if !vr.Valid() {
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if err := session.Back(); err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", "session cannot go back from its current step")
		return
	}
	respondJSON(w, http.StatusOK, AdvanceResponseDTO{State: string(session.State())})
}

func (h *SessionHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cfg := domain.ShippingConfig{
		Region:        domain.Region(req.Region),
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		Province:      req.Province,
		Locality:      req.Locality,
		Address:       req.Address,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
	if req.DeliveryDate != "" {
		date, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_delivery_date", "delivery_date must be YYYY-MM-DD")
			return
		}
		cfg.DeliveryDate = &date
	}

	if err := session.SetShipping(cfg); err != nil {
		switch {
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", "shipping data can only be set on the shipping or payment step")
		case errors.Is(err, checkout.ErrInvalidRegion):
			respondError(w, http.StatusBadRequest, "invalid_region", "region must be caba or interior")
		case errors.Is(err, checkout.ErrInvalidPayment):
			respondError(w, http.StatusBadRequest, "invalid_payment_method", "payment_method must be mercadopago or cash")
		case errors.Is(err, checkout.ErrCashUnavailable):
			respondError(w, http.StatusBadRequest, "cash_unavailable", "cash on delivery is only available in caba")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, AdvanceResponseDTO{State: string(session.State())})
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	result, err := h.coordinator.Confirm(r.Context(), session)
	if err != nil {
		log.Printf("request %s: confirm failed for session %s: %v", getRequestID(r.Context()), session.ID, err)
		switch {
		case errors.Is(err, checkout.ErrCheckoutInProgress):
			respondError(w, http.StatusConflict, "checkout_in_progress", "a submission is already in flight")
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", "confirm is only available on the payment step")
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cannot confirm with an empty cart")
		case errors.Is(err, mercadopago.ErrNotConfigured):
			respondError(w, http.StatusServiceUnavailable, "payment_unavailable", "payment is temporarily unavailable, please retry")
		case errors.Is(err, checkout.ErrPaymentRejected):
			respondError(w, http.StatusBadGateway, "payment_rejected", "payment could not be initiated, please retry")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "order submission failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, ConfirmResponseDTO{
		OrderID:      result.OrderID,
		RedirectURL:  result.RedirectURL,
		DeliveryDate: result.DeliveryDate,
		Scheduled:    result.Scheduled,
		SchedulingID: result.SchedulingID,
	})
}

func (h *SessionHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "unknown product")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	if err := session.Cart.Add(*product); err != nil {
		if errors.Is(err, cart.ErrQuantityLimitExceeded) {
			respondError(w, http.StatusConflict, "quantity_limit", "quantity limit reached for this product")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, h.sessionDTO(session))
}

func (h *SessionHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	session.Cart.Remove(productID)
	respondJSON(w, http.StatusOK, h.sessionDTO(session))
}

func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	session, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", "unknown session")
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) sessionDTO(session *checkout.Session) SessionResponseDTO {
	rate := session.Rate()
	lines := session.Cart.Lines()

	items := make([]CartLineDTO, 0, len(lines))
	for _, line := range lines {
		dto := CartLineDTO{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitUSD:     line.Product.PriceUSD,
		}
		if ars, err := pricingLineTotal(line, rate); err == nil {
			dto.LineARS = ars
		}
		items = append(items, dto)
	}

	total, err := session.Cart.DisplayTotal(rate)
	if err != nil {
		log.Printf("session %s: display total failed: %v", session.ID, err)
	}

	return SessionResponseDTO{
		SessionID:    session.ID,
		State:        string(session.State()),
		ExchangeRate: rate,
		Processing:   session.Processing(),
		Items:        items,
		DisplayTotal: total,
		CreatedAt:    session.CreatedAt(),
	}
}
