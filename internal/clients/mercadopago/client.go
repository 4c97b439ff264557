package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when the gateway access token is missing. The
// transport layer surfaces it as a generic failure with a retry prompt.
var ErrNotConfigured = errors.New("mercadopago access token not configured")

type PreferenceItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // settlement currency, rounded up
}

type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	ShippingCost      int64            `json:"shippingCost"`
	ExternalReference string           `json:"external_reference"`
}

type Preference struct {
	InitPoint string `json:"init_point"`
}

type Client struct {
	httpClient  *http.Client
	url         string
	accessToken string
}

func NewClient(url, accessToken string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		url:         url,
		accessToken: accessToken,
	}
}

// CreatePreference registers the settlement intent with the gateway and
// returns the buyer redirect. Exactly one attempt per call.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if c.accessToken == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal preference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build preference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("preference endpoint returned status %d", resp.StatusCode)
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("decode preference response: %w", err)
	}
	if pref.InitPoint == "" {
		return nil, errors.New("preference response missing init_point")
	}

	return &pref, nil
}
