package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/esencia-ar/backend/internal/domain"
)

// CABAShippingFeeARS is the fixed courier fee for metro-area deliveries, in
// local currency. Wednesdays ship free as a promotion.
const CABAShippingFeeARS int64 = 9000

var ErrInvalidRate = errors.New("exchange rate must be positive")

// ToLocal converts a USD-equivalent amount into whole local-currency units.
// Rounding is always upward so the conversion never favors the buyer.
func ToLocal(amountUSD, rate float64) (int64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return int64(math.Ceil(amountUSD * rate)), nil
}

// ShippingFee returns the local-currency fee and its USD-equivalent for
// settlement bookkeeping. Interior deliveries carry no fee here (the carrier
// collects on delivery); CABA deliveries are free on Wednesdays. A nil date
// is treated as "not Wednesday", so the fee applies.
//
// The USD equivalent is derived by dividing the fixed ARS fee by the live
// rate, so it floats with the rate while the displayed fee stays fixed.
func ShippingFee(region domain.Region, date *time.Time, rate float64) (int64, float64, error) {
	if rate <= 0 {
		return 0, 0, ErrInvalidRate
	}
	if region != domain.RegionCABA {
		return 0, 0, nil
	}
	if date != nil && date.Weekday() == time.Wednesday {
		return 0, 0, nil
	}
	return CABAShippingFeeARS, float64(CABAShippingFeeARS) / rate, nil
}
