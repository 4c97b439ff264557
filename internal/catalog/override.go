package catalog

import "github.com/esencia-ar/backend/internal/domain"

// Override holds per-field edits for a base product. Nil fields are left
// untouched, so repeated partial updates compose last-write-wins.
type Override struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Brand     *string   `bson:"brand,omitempty" json:"brand,omitempty"`
	Name      *string   `bson:"name,omitempty" json:"name,omitempty"`
	PriceUSD  *float64  `bson:"price_usd,omitempty" json:"price_usd,omitempty"`
	Scents    *[]string `bson:"scents,omitempty" json:"scents,omitempty"`
	MarginPct *int      `bson:"margin_pct,omitempty" json:"margin_pct,omitempty"`
	Stock     *int      `bson:"stock,omitempty" json:"stock,omitempty"`
}

func (o *Override) apply(p *domain.Product) {
	if o.Brand != nil {
		p.Brand = *o.Brand
	}
	if o.Name != nil {
		p.Name = *o.Name
	}
	if o.PriceUSD != nil {
		p.PriceUSD = *o.PriceUSD
	}
	if o.Scents != nil {
		p.Scents = *o.Scents
	}
	if o.MarginPct != nil {
		p.MarginPct = *o.MarginPct
	}
	if o.Stock != nil {
		p.Stock = *o.Stock
	}
}
