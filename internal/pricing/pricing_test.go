package pricing

import (
	"testing"
	"time"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLocal_RoundsUp(t *testing.T) {
	got, err := ToLocal(10, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got)

	got, err = ToLocal(10.001, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(10001), got)

	got, err = ToLocal(0.0001, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "fractions always round up, never down")
}

func TestToLocal_InvalidRate(t *testing.T) {
	_, err := ToLocal(10, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = ToLocal(10, -1200)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestShippingFee_InteriorIsAlwaysFree(t *testing.T) {
	for d := 0; d < 7; d++ {
		date := time.Date(2026, 9, 7+d, 12, 0, 0, 0, time.UTC)
		feeARS, feeUSD, err := ShippingFee(domain.RegionInterior, &date, 1200)
		require.NoError(t, err)
		assert.Zero(t, feeARS)
		assert.Zero(t, feeUSD)
	}
}

func TestShippingFee_CABA(t *testing.T) {
	wednesday := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, wednesday.Weekday())

	feeARS, feeUSD, err := ShippingFee(domain.RegionCABA, &wednesday, 1200)
	require.NoError(t, err)
	assert.Zero(t, feeARS, "wednesday promo waives the fee")
	assert.Zero(t, feeUSD)

	tuesday := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, tuesday.Weekday())

	feeARS, feeUSD, err = ShippingFee(domain.RegionCABA, &tuesday, 1200)
	require.NoError(t, err)
	assert.Equal(t, CABAShippingFeeARS, feeARS)
	assert.InDelta(t, float64(CABAShippingFeeARS)/1200, feeUSD, 1e-9)
}

func TestShippingFee_NilDateChargesFee(t *testing.T) {
	feeARS, _, err := ShippingFee(domain.RegionCABA, nil, 1200)
	require.NoError(t, err)
	assert.Equal(t, CABAShippingFeeARS, feeARS)
}

func TestShippingFee_InvalidRate(t *testing.T) {
	_, _, err := ShippingFee(domain.RegionCABA, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}
