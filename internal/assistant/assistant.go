package assistant

import (
	"context"
	"sync"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/google/uuid"
)

// Querier answers a single free-text question given the current exchange
// rate and catalog. The checkout pipeline treats the response as opaque
// display text.
type Querier interface {
	Query(ctx context.Context, text string, rate float64, products []domain.Product) (string, error)
}

// Exchange is one question/answer pair kept in a session transcript.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is a per-conversation handle. Each conversation gets its own
// session from the Store; there is no shared process-wide state.
type Session struct {
	ID string

	mu      sync.Mutex
	querier Querier
	history []Exchange
}

// Ask forwards the question to the querier and records the exchange.
func (s *Session) Ask(ctx context.Context, text string, rate float64, products []domain.Product) (string, error) {
	answer, err := s.querier.Query(ctx, text, rate, products)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, Exchange{Question: text, Answer: answer})
	s.mu.Unlock()
	return answer, nil
}

func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Store hands out assistant sessions keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	querier  Querier
}

func NewStore(querier Querier) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		querier:  querier,
	}
}

func (st *Store) Create() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		querier: st.querier,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}
