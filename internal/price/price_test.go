package price

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroTicksEqualDecimals(t *testing.T) {
	lower, upper, mid := Range(0, 0, 18, 18)
	require.Equal(t, "1.00", Format(lower))
	require.Equal(t, "1.00", Format(upper))
	require.Equal(t, "1.00", Format(mid))
}

func TestDecimalScaling(t *testing.T) {
	// tick 0 with dec0=18, dec1=6 (e.g. WETH/USDC) scales by 10^12
	lower, upper, mid := Range(0, 0, 18, 6)
	require.InEpsilon(t, 1e12, lower, 1e-9)
	require.InEpsilon(t, 1e12, upper, 1e-9)
	require.InEpsilon(t, 1e12, mid, 1e-9)
}

func TestMidIsGeometricMean(t *testing.T) {
	lower, upper, mid := Range(-600, 600, 18, 18)
	require.Less(t, lower, upper)
	require.InEpsilon(t, math.Sqrt(lower*upper), mid, 1e-12)
	// symmetric range around zero: mid is exactly 1
	require.InEpsilon(t, 1.0, mid, 1e-9)
}

func TestTickExponent(t *testing.T) {
	lower, _, _ := Range(1, 1, 18, 18)
	require.InEpsilon(t, 1.0001, lower, 1e-12)
}

func TestFormatRounds(t *testing.T) {
	require.Equal(t, "1234.57", Format(1234.5678))
	require.Equal(t, "0.00", Format(0.0001))
}
