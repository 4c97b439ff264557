package domain

import "time"

type Region string

const (
	RegionCABA     Region = "caba"
	RegionInterior Region = "interior"
)

func (r Region) Valid() bool {
	return r == RegionCABA || r == RegionInterior
}

type PaymentMethod string

const (
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentCash        PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMercadoPago || m == PaymentCash
}

// ShippingConfig holds the buyer data collected during the shipping and
// payment steps. DeliveryDate is nil until the buyer picks a date.
type ShippingConfig struct {
	Region        Region
	FullName      string
	Phone         string
	Email         string // optional
	Province      string
	Locality      string
	Address       string
	DeliveryDate  *time.Time
	PaymentMethod PaymentMethod
}
