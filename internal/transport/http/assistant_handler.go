package http

import (
	"encoding/json"
	"net/http"

	"github.com/esencia-ar/backend/internal/assistant"
	"github.com/esencia-ar/backend/internal/catalog"
	"github.com/esencia-ar/backend/internal/checkout"
	"github.com/go-chi/chi/v5"
)

// AssistantHandler exposes the recommendation chat. Each conversation gets
// its own session; answers are display text only and never touch order logic.
type AssistantHandler struct {
	sessions *assistant.Store
	catalog  *catalog.Service
	rates    checkout.RateSource
}

func NewAssistantHandler(sessions *assistant.Store, catalogSvc *catalog.Service, rates checkout.RateSource) *AssistantHandler {
	return &AssistantHandler{
		sessions: sessions,
		catalog:  catalogSvc,
		rates:    rates,
	}
}

type AskRequestDTO struct {
	Text string `json:"text"`
}

type AskResponseDTO struct {
	Response string `json:"response"`
}

func (h *AssistantHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	respondJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get(chi.URLParam(r, "session_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "unknown assistant session")
		return
	}

	var req AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load catalog")
		return
	}

	answer, err := session.Ask(r.Context(), req.Text, h.rates.Current(r.Context()), products)
	if err != nil {
		respondError(w, http.StatusBadGateway, "assistant_unavailable", "assistant is temporarily unavailable")
		return
	}
	respondJSON(w, http.StatusOK, AskResponseDTO{Response: answer})
}

func (h *AssistantHandler) History(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get(chi.URLParam(r, "session_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "unknown assistant session")
		return
	}
	respondJSON(w, http.StatusOK, session.History())
}
