package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type ScheduleItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ScheduleRequest struct {
	OrderID      string         `json:"orderId"`
	CustomerName string         `json:"customerName"`
	Address      string         `json:"address"`
	DeliveryDate string         `json:"deliveryDate"`
	Items        []ScheduleItem `json:"items"`
	Total        string         `json:"total"` // formatted, e.g. "$21600 ARS"
}

type ScheduleResult struct {
	Success      bool   `json:"success"`
	SchedulingID string `json:"schedulingId"`
}

// Client talks to the best-effort delivery-scheduling service. Callers treat
// failures as non-fatal.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build schedule request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("schedule delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scheduling endpoint returned status %d", resp.StatusCode)
	}

	var result ScheduleResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode schedule response: %w", err)
	}

	return &result, nil
}
