// Package path implements the Euler-Maruyama discretisation of the Merton
// jump-diffusion SDE described in spec.md §4.4: a geometric Brownian motion
// in log-price augmented by a compound Poisson process with log-normal jump
// sizes, under either the real-world or risk-neutral measure.
package path

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/quantmc/jdlsm/market"
)

// Generator advances one sample trajectory of the discretised jump-diffusion
// model in log-price space. A Generator owns its own PRNG state (the
// teacher's models/merton.go and models/heston.go both hand each goroutine a
// private *rand.Rand) and must never be shared across goroutines; each
// pricing worker creates its own Generator from an independent seed, see
// SplitMix64Seeds.
type Generator struct {
	data *market.Data
	rng  *rand.Rand
}

// New builds a Generator over the given market data, seeded independently
// of any other Generator.
func New(data *market.Data, seed uint64) *Generator {
	return &Generator{data: data, rng: rand.New(rand.NewSource(seed))}
}

// Path fills buf with one sample trajectory {S0, S_dt, ..., S_{steps*dt}}
// over horizon t split into steps equal steps. buf must have length
// steps+1; it is reused across calls so a worker's path buffer need be
// allocated only once.
func (g *Generator) Path(buf []float64, t float64, steps int) {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)

	d := g.data
	sigma := d.Sigma
	muJ := math.Log(1+d.Gamma) - 0.5*d.SigmaJ*d.SigmaJ
	compensator := d.Lambda * d.Gamma // lambda * kappa, kappa == Gamma

	buf[0] = d.Spot
	s := d.Spot
	for i := 0; i < steps; i++ {
		ti := float64(i) * dt

		var drift float64
		if d.RiskNeutral {
			drift = d.Curve().Rate(ti)
		} else {
			drift = d.Mu
		}
		theta := drift - compensator - 0.5*sigma*sigma

		dLogS := theta*dt + sigma*sqrtDt*g.rng.NormFloat64()

		if d.Lambda > 0 {
			n := g.poisson(d.Lambda * dt)
			for j := 0; j < n; j++ {
				y := muJ
				if d.SigmaJ > 0 {
					y += d.SigmaJ * g.rng.NormFloat64()
				}
				dLogS += y
			}
		}

		s *= math.Exp(dLogS)
		buf[i+1] = s
	}
}

// poisson draws a Poisson(mean) sample using Knuth's multiplicative
// algorithm, per spec.md §4.4. It is adequate for mean <= ~30; the spec
// deliberately does not require switching to a rejection sampler above that
// (see spec.md §9), and this implementation faithfully does not either.
func (g *Generator) poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		k++
		if p <= l {
			break
		}
	}
	return k - 1
}
