package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/quantmc/jdlsm/market"
	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/path"
	"github.com/quantmc/jdlsm/ratecurve"
)

func buildData(t *testing.T, sigma, mu, lambda, gamma, sigmaJ, spot, rate float64, riskNeutral bool) *market.Data {
	t.Helper()
	curve, err := ratecurve.New(map[float64]float64{1: rate})
	require.NoError(t, err)
	d, err := market.New(sigma, mu, lambda, gamma, sigmaJ, spot, riskNeutral, curve)
	require.NoError(t, err)
	return d
}

func TestCombineEuropeanPartials_MatchesDirectMoments(t *testing.T) {
	data := buildData(t, 0.2, 0.05, 0, 0, 0, 100, 0.05, true)
	contract, err := option.NewEuropean(100, 1, option.Call)
	require.NoError(t, err)

	gen1 := path.New(data, 111)
	gen2 := path.New(data, 222)

	p1 := EuropeanChunk(gen1, contract, 400, EuropeanSteps)
	p2 := EuropeanChunk(gen2, contract, 600, EuropeanSteps)

	// Recompute directly from fresh, identically-seeded generators to
	// check the combination formula against gonum/stat over the pooled
	// sample, rather than re-using p1/p2's internal payoffs (which are
	// not exported).
	gen1b := path.New(data, 111)
	gen2b := path.New(data, 222)
	buf := make([]float64, EuropeanSteps+1)
	all := make([]float64, 0, 1000)
	for i := 0; i < 400; i++ {
		gen1b.Path(buf, contract.Expiry(), EuropeanSteps)
		all = append(all, contract.Payoff(buf[EuropeanSteps]))
	}
	for i := 0; i < 600; i++ {
		gen2b.Path(buf, contract.Expiry(), EuropeanSteps)
		all = append(all, contract.Payoff(buf[EuropeanSteps]))
	}
	wantMean, wantVar := stat.MeanVariance(all, nil)

	discount := data.Curve().Discount(1)
	result := CombineEuropeanPartials([]EuropeanPartial{p1, p2}, discount)

	assert.InDelta(t, wantMean*discount, result.Price, 1e-9)
	wantStdErr := discount * math.Sqrt(wantVar/float64(len(all)))
	assert.InDelta(t, wantStdErr, result.StdErr, 1e-9)
}

func TestCombineEuropeanPartials_EmptyIsZero(t *testing.T) {
	result := CombineEuropeanPartials(nil, 0.9)
	assert.Equal(t, EuropeanResult{}, result)
}

func TestPriceIsNonNegative_DegenerateDeterministicCase(t *testing.T) {
	// spec.md §8 scenario 5: sigma=lambda=gamma=0, mu=r=0.05
	// risk-neutral, S0=K=100, T=1, Call. No Monte Carlo noise at all,
	// only discretisation, so N=1 path suffices and the result must hit
	// the closed form within a tight tolerance.
	data := buildData(t, 0, 0.05, 0, 0, 0, 100, 0.05, true)
	contract, err := option.NewEuropean(100, 1, option.Call)
	require.NoError(t, err)

	gen := path.New(data, 1)
	partial := EuropeanChunk(gen, contract, 1, EuropeanSteps)
	discount := data.Curve().Discount(1)
	result := CombineEuropeanPartials([]EuropeanPartial{partial}, discount)

	want := (100*math.Exp(0.05) - 100) * math.Exp(-0.05)
	assert.InDelta(t, want, result.Price, 0.02)
	assert.GreaterOrEqual(t, result.Price, 0.0)
}
