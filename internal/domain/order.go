package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanAdvanceStatus encodes the monotonic status progression driven by the
// admin collaborator. Delivered and cancelled are terminal.
func CanAdvanceStatus(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	default:
		return false
	}
}

type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
	UnitPriceARS int64   `json:"unit_price_ars"`
}

// Order is the immutable snapshot built at submission time. The checkout
// pipeline never mutates it after creation; status changes come from the
// admin collaborator.
type Order struct {
	ID             string
	Items          []OrderItem
	TotalUSD       float64
	ShippingFeeARS int64
	ShippingFeeUSD float64
	CustomerName   string
	CustomerEmail  string // optional
	Address        string
	DeliveryDate   string // date string tagged with the region
	Region         Region
	PaymentMethod  PaymentMethod
	Status         OrderStatus
	CreatedAt      time.Time
}
