package domain

// MaxLineQuantity caps how many units of a single product a cart may hold.
const MaxLineQuantity = 4

// CartLine is one product entry in the cart, unique per product id.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
