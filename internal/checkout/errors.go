package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal checkout state transition")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrCheckoutInProgress = errors.New("a submission is already in progress")
	ErrCashUnavailable    = errors.New("cash payment is only available in caba")
	ErrInvalidRegion      = errors.New("invalid delivery region")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrPaymentRejected    = errors.New("payment preference was rejected")
)
