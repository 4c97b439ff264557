package catalog

import "github.com/esencia-ar/backend/internal/domain"

// BaseProducts is the shipped catalog. Runtime edits go through the
// overrides store, never through this list.
func BaseProducts() []domain.Product {
	return []domain.Product{
		{ID: "musk-oud-100", Brand: "Esencia", Name: "Musk Oud", PriceUSD: 18, Scents: []string{"oud", "musk", "amber"}, MarginPct: 50, Stock: 12},
		{ID: "citrus-vert-50", Brand: "Esencia", Name: "Citrus Vert", PriceUSD: 7.5, Scents: []string{"bergamot", "vetiver"}, Stock: 20},
		{ID: "flor-de-sal-100", Brand: "Esencia", Name: "Flor de Sal", PriceUSD: 16, Scents: []string{"sea salt", "jasmine"}, MarginPct: 45, Stock: 8},
		{ID: "tabaco-dulce-100", Brand: "Esencia", Name: "Tabaco Dulce", PriceUSD: 21, Scents: []string{"tobacco", "vanilla", "tonka"}, MarginPct: 55, Stock: 6},
		{ID: "verde-mate-50", Brand: "Esencia", Name: "Verde Mate", PriceUSD: 9, Scents: []string{"mate", "green tea"}, Stock: 15},
		{ID: "cuero-negro-100", Brand: "Esencia", Name: "Cuero Negro", PriceUSD: 24, Scents: []string{"leather", "black pepper"}, MarginPct: 50, Stock: 5},
	}
}
