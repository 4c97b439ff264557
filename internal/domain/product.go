package domain

// DefaultMarginPct is applied when a product carries no explicit retail margin.
const DefaultMarginPct = 50

type Product struct {
	ID        string   `json:"id"`
	Brand     string   `json:"brand"`
	Name      string   `json:"name"`
	PriceUSD  float64  `json:"price_usd"`
	Scents    []string `json:"scents"` // display order matters
	MarginPct int      `json:"margin_pct"`
	Stock     int      `json:"stock"`
}
