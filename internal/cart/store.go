package cart

import (
	"errors"
	"sync"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/esencia-ar/backend/internal/pricing"
)

var ErrQuantityLimitExceeded = errors.New("quantity limit reached for product")

// Event is emitted after a successful add so the caller can present the cart.
type Event struct {
	ProductID string
	Quantity  int
}

// Store holds the in-progress selection for a single checkout session. It is
// exclusively owned by that session; the mutex only guards against overlapping
// HTTP requests on the same session.
type Store struct {
	mu          sync.Mutex
	lines       []domain.CartLine
	onItemAdded func(Event)
}

func NewStore() *Store {
	return &Store{}
}

// OnItemAdded registers the item-added notification hook.
func (s *Store) OnItemAdded(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onItemAdded = fn
}

// Add increments the line for the product, inserting it with quantity 1 when
// absent. A line already at the cap is left unchanged and the add is rejected
// with ErrQuantityLimitExceeded.
func (s *Store) Add(p domain.Product) error {
	s.mu.Lock()
	var ev Event
	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			if s.lines[i].Quantity >= domain.MaxLineQuantity {
				s.mu.Unlock()
				return ErrQuantityLimitExceeded
			}
			s.lines[i].Quantity++
			ev = Event{ProductID: p.ID, Quantity: s.lines[i].Quantity}
			fn := s.onItemAdded
			s.mu.Unlock()
			if fn != nil {
				fn(ev)
			}
			return nil
		}
	}
	s.lines = append(s.lines, domain.CartLine{Product: p, Quantity: 1})
	ev = Event{ProductID: p.ID, Quantity: 1}
	fn := s.onItemAdded
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
	return nil
}

// Remove deletes the line entirely, regardless of quantity.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, line := range s.lines {
		if line.Product.ID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called exactly once, on successful confirmation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// DisplayTotal sums the localized line totals. Advisory only: the settlement
// total is recomputed independently at submission.
func (s *Store) DisplayTotal(rate float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, line := range s.lines {
		local, err := pricing.ToLocal(line.Product.PriceUSD*float64(line.Quantity), rate)
		if err != nil {
			return 0, err
		}
		total += local
	}
	return total, nil
}
