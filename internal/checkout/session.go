package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/esencia-ar/backend/internal/cart"
	"github.com/esencia-ar/backend/internal/domain"
	"github.com/google/uuid"
)

// LocalOrder is the session-local order record kept alongside the
// authoritative store, with its two-phase confirmation state.
type LocalOrder struct {
	Order domain.Order
	State domain.LocalOrderState
}

// Session owns one cart's walk through the checkout pipeline. A session is
// exclusively owned by one buyer; the mutex only serializes overlapping HTTP
// requests against it.
type Session struct {
	ID   string
	Cart *cart.Store

	mu         sync.Mutex
	state      domain.CheckoutState
	shipping   domain.ShippingConfig
	rate       float64
	processing bool
	history    []LocalOrder
	createdAt  time.Time
}

func newSession(rate float64) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cart:      cart.NewStore(),
		state:     domain.CheckoutStateCart,
		rate:      rate,
		createdAt: time.Now(),
	}
}

func (s *Session) State() domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rate is the session exchange rate, resolved once at session start and
// read-only afterwards.
func (s *Session) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

func (s *Session) Shipping() domain.ShippingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// SetShipping replaces the buyer data. Only legal while the session is on the
// shipping or payment step.
func (s *Session) SetShipping(cfg domain.ShippingConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CheckoutStateShipping && s.state != domain.CheckoutStatePayment {
		return ErrIllegalTransition
	}
	if cfg.Region != "" && !cfg.Region.Valid() {
		return ErrInvalidRegion
	}
	if cfg.PaymentMethod != "" && !cfg.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if cfg.PaymentMethod == domain.PaymentCash && cfg.Region != domain.RegionCABA {
		return ErrCashUnavailable
	}

	s.shipping = cfg
	return nil
}

// Advance moves the session one step forward. A non-nil ValidationResult with
// missing fields means the guard rejected the transition; the session stays
// put and the caller decides how to display it.
func (s *Session) Advance() (*ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.CheckoutStateCart:
		if s.Cart.IsEmpty() {
			return nil, ErrEmptyCart
		}
		if err := s.transitionLocked(domain.CheckoutStateShipping); err != nil {
			return nil, err
		}
		return &ValidationResult{}, nil

	case domain.CheckoutStateShipping:
		vr := ValidateShipping(s.shipping)
		if !vr.Valid() {
			return &vr, nil
		}
		if err := s.transitionLocked(domain.CheckoutStatePayment); err != nil {
			return nil, err
		}
		return &vr, nil

	default:
		return nil, ErrIllegalTransition
	}
}

func (s *Session) transitionLocked(to domain.CheckoutState) error {
	if !domain.CanTransitionTo(s.state, to) {
		return ErrIllegalTransition
	}
	s.state = to
	return nil
}

// Back returns from shipping to cart. Payment has no back edge: the only way
// out of payment is confirm or abandoning the surface.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CheckoutStateShipping {
		return ErrIllegalTransition
	}
	return s.transitionLocked(domain.CheckoutStateCart)
}

func (s *Session) History() []LocalOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LocalOrder, len(s.history))
	copy(out, s.history)
	return out
}

// Processing reports whether a submission is in flight; the confirm surface
// stays disabled while true.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *Session) beginProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.CheckoutStatePayment {
		return ErrIllegalTransition
	}
	if s.processing {
		return ErrCheckoutInProgress
	}
	s.processing = true
	return nil
}

func (s *Session) endProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}

// recordLocal appends the optimistic order record before any external
// acknowledgment is known.
func (s *Session) recordLocal(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, LocalOrder{Order: order, State: domain.LocalOrderPendingConfirmation})
}

// markConfirmed flips the local record once the authoritative store acks.
func (s *Session) markConfirmed(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].Order.ID == orderID {
			s.history[i].State = domain.LocalOrderConfirmed
			return
		}
	}
}

// completeSubmission empties the cart and returns the machine to cart.
func (s *Session) completeSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.Clear()
	_ = s.transitionLocked(domain.CheckoutStateCart)
}

// Store keeps the live checkout sessions. One session per cart instance; no
// cross-session ordering guarantees are needed.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	rates    RateSource
}

// RateSource resolves the session exchange rate; failures inside it are soft
// and already resolved to a usable value.
type RateSource interface {
	Current(ctx context.Context) float64
}

func NewStore(rates RateSource) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		rates:    rates,
	}
}

func (st *Store) Create(ctx context.Context) *Session {
	s := newSession(st.rates.Current(ctx))
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
