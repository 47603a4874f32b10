package ratecurve

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmc/jdlsm/pricingerr"
)

func TestNew_RejectsEmptyMapping(t *testing.T) {
	_, err := New(map[float64]float64{})
	require.Error(t, err)
	var pe *pricingerr.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pricingerr.InvalidArgument, pe.Kind)
}

func TestNew_RejectsNonPositiveMaturity(t *testing.T) {
	_, err := New(map[float64]float64{0: 0.02, 1: 0.03})
	require.Error(t, err)

	_, err = New(map[float64]float64{-1: 0.02})
	require.Error(t, err)
}

func TestNew_RejectsNegativeRate(t *testing.T) {
	_, err := New(map[float64]float64{1: -0.01})
	require.Error(t, err)
}

func TestRate_FlatExtrapolation(t *testing.T) {
	c, err := New(map[float64]float64{1: 0.02, 2: 0.03, 5: 0.04})
	require.NoError(t, err)

	assert.Equal(t, 0.02, c.Rate(0.1))
	assert.Equal(t, 0.02, c.Rate(1))
	assert.Equal(t, 0.04, c.Rate(5))
	assert.Equal(t, 0.04, c.Rate(10))
}

func TestRate_LinearInterpolation(t *testing.T) {
	c, err := New(map[float64]float64{1: 0.02, 3: 0.06})
	require.NoError(t, err)

	for _, alpha := range []float64{0, 0.25, 0.5, 0.75, 1} {
		tau1, tau2 := 1.0, 3.0
		tau := alpha*tau1 + (1-alpha)*tau2
		want := alpha*c.Rate(tau1) + (1-alpha)*c.Rate(tau2)
		got := c.Rate(tau)
		if diff := math.Abs(got - want); diff > 1e-12*math.Max(1, math.Abs(want)) {
			t.Errorf("rate(%v)=%v, want %v within tolerance", tau, got, want)
		}
	}
}

func TestRate_ExactKeyLookup(t *testing.T) {
	c, err := New(map[float64]float64{1: 0.02, 2: 0.03, 5: 0.04})
	require.NoError(t, err)
	assert.Equal(t, 0.03, c.Rate(2))
}

func TestDiscount(t *testing.T) {
	c, err := New(map[float64]float64{1: 0.05})
	require.NoError(t, err)
	want := math.Exp(-0.05 * 1)
	assert.InDelta(t, want, c.Discount(1), 1e-12)
}

func TestRatesView_IsACopy(t *testing.T) {
	c, err := New(map[float64]float64{1: 0.02})
	require.NoError(t, err)

	view := c.RatesView()
	view[1] = 0.99
	assert.Equal(t, 0.02, c.Rate(1), "mutating the returned view must not affect the curve")
}
