package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func flows(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

// -100 now, +110 in one year: the rate is exactly 10%.
func TestIRRSinglePeriod(t *testing.T) {
	r, err := IRR(flows("-100", "110"))
	require.NoError(t, err)
	require.Equal(t, "0.1000", r.StringFixed(4))
}

// Level annuity: -1000 then 300 for five years. npv(0.1524) ~ 0.
func TestIRRAnnuity(t *testing.T) {
	r, err := IRR(flows("-1000", "300", "300", "300", "300", "300"))
	require.NoError(t, err)
	require.Equal(t, "0.1524", r.StringFixed(4))
}

func TestIRRTwoPayments(t *testing.T) {
	// -100, 60, 60: solves 60/(1+r) + 60/(1+r)^2 = 100.
	r, err := IRR(flows("-100", "60", "60"))
	require.NoError(t, err)
	require.Equal(t, "0.1307", r.StringFixed(4))
}

func TestIRRNoSignChange(t *testing.T) {
	// All inflows: NPV is positive at every rate, no root exists.
	_, err := IRR(flows("100", "50", "50"))
	require.ErrorIs(t, err, ErrIRRNotConvergent)
}

func TestIRRAllNegative(t *testing.T) {
	_, err := IRR(flows("-100", "-50"))
	require.ErrorIs(t, err, ErrIRRNotConvergent)
}

func TestIRRTooFewFlows(t *testing.T) {
	_, err := IRR(flows("-100"))
	require.ErrorIs(t, err, ErrTooFewCashFlows)
}

// Total loss: -100 then +1. The root sits near the bottom of the
// bracket; bisection must still find it.
func TestIRRDeepLoss(t *testing.T) {
	r, err := IRR(flows("-100", "1"))
	require.NoError(t, err)
	require.Equal(t, "-0.9900", r.StringFixed(4))
}
