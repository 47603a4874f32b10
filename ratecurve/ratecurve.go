// Package ratecurve implements the piecewise-linear zero-rate term structure
// described in spec.md §4.1: flat extrapolation outside the supplied key
// range, linear interpolation between bracketing maturities inside it.
package ratecurve

import (
	"math"
	"sort"

	"github.com/quantmc/jdlsm/pricingerr"
)

// Curve is an immutable, ordered zero-rate term structure. Once built with
// New it is never mutated; it is shared read-only across pricing workers.
type Curve struct {
	maturities []float64
	rates      []float64
}

// New builds a Curve from a maturity (years) -> zero rate mapping. It fails
// when the mapping is empty, any maturity is <= 0, or any rate is < 0, per
// spec.md §3/§4.1.
func New(rates map[float64]float64) (*Curve, error) {
	if len(rates) == 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "rate curve: mapping must not be empty")
	}

	maturities := make([]float64, 0, len(rates))
	for tau, r := range rates {
		if tau <= 0 {
			return nil, pricingerr.New(pricingerr.InvalidArgument, "rate curve: maturities must be strictly positive")
		}
		if r < 0 {
			return nil, pricingerr.New(pricingerr.InvalidArgument, "rate curve: rates must be non-negative")
		}
		maturities = append(maturities, tau)
	}
	sort.Float64s(maturities)

	c := &Curve{
		maturities: maturities,
		rates:      make([]float64, len(maturities)),
	}
	for i, tau := range maturities {
		c.rates[i] = rates[tau]
	}
	return c, nil
}

// Rate returns the flat-extrapolated, piecewise-linear zero rate at
// maturity tau.
func (c *Curve) Rate(tau float64) float64 {
	n := len(c.maturities)
	if tau <= c.maturities[0] {
		return c.rates[0]
	}
	if tau >= c.maturities[n-1] {
		return c.rates[n-1]
	}

	// Binary search for the bracketing interval [maturities[i-1], maturities[i]].
	i := sort.Search(n, func(i int) bool { return c.maturities[i] >= tau })
	if c.maturities[i] == tau {
		return c.rates[i]
	}
	t0, t1 := c.maturities[i-1], c.maturities[i]
	r0, r1 := c.rates[i-1], c.rates[i]
	w := (tau - t0) / (t1 - t0)
	return r0 + w*(r1-r0)
}

// Discount returns the discount factor exp(-rate(tau)*tau).
func (c *Curve) Discount(tau float64) float64 {
	r := c.Rate(tau)
	return math.Exp(-r * tau)
}

// RatesView is a read-only snapshot of the curve's maturity->rate points.
// Mutating the returned map has no effect on the Curve; it is a defensive
// copy, not a live view, so there is no programming error to guard against.
func (c *Curve) RatesView() map[float64]float64 {
	view := make(map[float64]float64, len(c.maturities))
	for i, tau := range c.maturities {
		view[tau] = c.rates[i]
	}
	return view
}
