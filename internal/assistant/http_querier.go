package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/esencia-ar/backend/internal/domain"
)

// HTTPQuerier forwards questions to the external assistant service.
type HTTPQuerier struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPQuerier(baseURL string) *HTTPQuerier {
	return &HTTPQuerier{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type queryRequest struct {
	Text         string           `json:"text"`
	ExchangeRate float64          `json:"exchange_rate"`
	Products     []domain.Product `json:"products"`
}

type queryResponse struct {
	Response string `json:"response"`
}

func (q *HTTPQuerier) Query(ctx context.Context, text string, rate float64, products []domain.Product) (string, error) {
	body, err := json.Marshal(queryRequest{
		Text:         text,
		ExchangeRate: rate,
		Products:     products,
	})
	if err != nil {
		return "", fmt.Errorf("marshal assistant query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build assistant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	return parsed.Response, nil
}
