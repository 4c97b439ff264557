package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockQuerier struct {
	Answer string
	Err    error
	Calls  int
}

func (m *MockQuerier) Query(ctx context.Context, text string, rate float64, products []domain.Product) (string, error) {
	m.Calls++
	return m.Answer, m.Err
}

func TestSession_AskRecordsHistory(t *testing.T) {
	querier := &MockQuerier{Answer: "Try Musk Oud for woody scents."}
	store := NewStore(querier)
	session := store.Create()

	answer, err := session.Ask(context.Background(), "something woody?", 1200, nil)
	require.NoError(t, err)
	assert.Equal(t, "Try Musk Oud for woody scents.", answer)

	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, "something woody?", history[0].Question)
	assert.Equal(t, answer, history[0].Answer)
}

func TestSession_AskErrorLeavesHistoryUntouched(t *testing.T) {
	querier := &MockQuerier{Err: errors.New("assistant down")}
	session := NewStore(querier).Create()

	_, err := session.Ask(context.Background(), "hi", 1200, nil)
	assert.Error(t, err)
	assert.Empty(t, session.History())
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	querier := &MockQuerier{Answer: "ok"}
	store := NewStore(querier)

	s1 := store.Create()
	s2 := store.Create()
	assert.NotEqual(t, s1.ID, s2.ID)

	_, err := s1.Ask(context.Background(), "first", 1200, nil)
	require.NoError(t, err)

	assert.Len(t, s1.History(), 1)
	assert.Empty(t, s2.History())

	got, ok := store.Get(s1.ID)
	require.True(t, ok)
	assert.Same(t, s1, got)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestHTTPQuerier_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Citrus Vert fits a summer day."}`))
	}))
	defer server.Close()

	querier := NewHTTPQuerier(server.URL)
	answer, err := querier.Query(context.Background(), "summer pick?", 1150, []domain.Product{{ID: "citrus-vert-50"}})
	require.NoError(t, err)
	assert.Equal(t, "Citrus Vert fits a summer day.", answer)
}

func TestHTTPQuerier_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	querier := NewHTTPQuerier(server.URL)
	_, err := querier.Query(context.Background(), "hi", 1150, nil)
	assert.Error(t, err)
}
