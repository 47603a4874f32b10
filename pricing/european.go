// Package pricing implements the European and Least-Squares Monte Carlo
// estimators described in spec.md §4.5/§4.6. Each estimator exposes the
// per-chunk work a worker performs and an aggregation step the driver runs
// once every worker has joined; package engine owns the worker pool itself.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/path"
)

// EuropeanSteps is the fixed path length the European estimator uses, per
// spec.md §4.5. Only the terminal price is consumed, so a single big step
// would suffice with no jumps and small lambda (spec.md §9), but this
// estimator preserves the source's 100-step fidelity by default.
const EuropeanSteps = 100

// EuropeanResult is the European estimator's output: the discounted mean
// payoff, plus its Monte Carlo sample standard error so callers can apply
// the k*sigma_sample/sqrt(N) tolerance bounds spec.md §8 describes.
type EuropeanResult struct {
	Price  float64
	StdErr float64
}

// EuropeanPartial is one worker's contribution: the mean and variance of
// its chunk's undiscounted terminal payoffs, and how many paths it drew.
// Partials from every worker are combined with CombineEuropeanPartials,
// which applies the discount factor once to the joined moments.
type EuropeanPartial struct {
	Mean     float64
	Variance float64
	N        int
}

// EuropeanChunk draws n independent paths with gen and returns the partial
// mean/variance of this chunk's immediate (undiscounted) payoffs at
// maturity, using gonum/stat for the moment computation. Variance is the
// unbiased (N-1) sample variance, matching stat.MeanVariance's convention;
// a chunk of fewer than two paths has no defined sample variance and is
// reported as zero rather than gonum's NaN, so a single-path-per-worker run
// still yields a finite StdErr.
func EuropeanChunk(gen *path.Generator, contract *option.Contract, n, steps int) EuropeanPartial {
	buf := make([]float64, steps+1)
	payoffs := make([]float64, n)
	for i := 0; i < n; i++ {
		gen.Path(buf, contract.Expiry(), steps)
		payoffs[i] = contract.Payoff(buf[steps])
	}
	if n < 2 {
		mean := 0.0
		if n == 1 {
			mean = payoffs[0]
		}
		return EuropeanPartial{Mean: mean, Variance: 0, N: n}
	}
	mean, variance := stat.MeanVariance(payoffs, nil)
	return EuropeanPartial{Mean: mean, Variance: variance, N: n}
}

// CombineEuropeanPartials merges per-worker partial moments into the
// overall sample mean/variance using Chan's parallel combination formula,
// then discounts by discount (the rate curve's discount factor at
// maturity) to produce the final price and standard error. Each partial's
// Variance is the unbiased (N-1) sample variance (EuropeanChunk's
// convention), so the running second moment is accumulated as
// Variance*(N-1) and the combined variance is recovered by dividing by
// (n-1); this keeps the parallel combination consistent with
// stat.MeanVariance computed directly over the pooled sample.
func CombineEuropeanPartials(partials []EuropeanPartial, discount float64) EuropeanResult {
	var mean, m2 float64
	var n int

	for _, p := range partials {
		if p.N == 0 {
			continue
		}
		if n == 0 {
			mean = p.Mean
			m2 = p.Variance * float64(p.N-1)
			n = p.N
			continue
		}
		pm2 := p.Variance * float64(p.N-1)
		delta := p.Mean - mean
		totalN := n + p.N
		mean += delta * float64(p.N) / float64(totalN)
		m2 += pm2 + delta*delta*float64(n)*float64(p.N)/float64(totalN)
		n = totalN
	}

	if n == 0 {
		return EuropeanResult{}
	}

	var variance float64
	if n > 1 {
		variance = m2 / float64(n-1)
	}
	price := mean * discount
	stdErr := discount * math.Sqrt(variance/float64(n))
	return EuropeanResult{Price: price, StdErr: stdErr}
}
