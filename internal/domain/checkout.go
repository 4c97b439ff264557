package domain

type CheckoutState string

const (
	CheckoutStateCart     CheckoutState = "CART"
	CheckoutStateShipping CheckoutState = "SHIPPING"
	CheckoutStatePayment  CheckoutState = "PAYMENT"
)

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

// CanTransitionTo restricts checkout navigation: forward one step at a time,
// back only from shipping, and a successful confirm returns to cart. There
// is no payment -> shipping edge.
func CanTransitionTo(from, to CheckoutState) bool {
	switch from {
	case CheckoutStateCart:
		return to == CheckoutStateShipping
	case CheckoutStateShipping:
		return to == CheckoutStatePayment || to == CheckoutStateCart
	case CheckoutStatePayment:
		return to == CheckoutStateCart
	}
	return false
}

// LocalOrderState tracks the session-local order record relative to the
// authoritative store: records start pending and flip to confirmed only on a
// positive acknowledgment.
type LocalOrderState string

const (
	LocalOrderPendingConfirmation LocalOrderState = "pending_confirmation"
	LocalOrderConfirmed           LocalOrderState = "confirmed"
)
