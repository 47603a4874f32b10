// Package market holds the immutable model-parameter bundle shared
// read-only by every pricing worker, per spec.md §3/§4.2.
package market

import (
	"github.com/quantmc/jdlsm/pricingerr"
	"github.com/quantmc/jdlsm/ratecurve"
)

// Data is the validated, immutable set of Merton jump-diffusion
// parameters for one pricing run, plus the rate curve that supplies the
// instantaneous rate used when RiskNeutral is set.
type Data struct {
	// Sigma is the diffusion volatility sigma >= 0.
	Sigma float64
	// Mu is the real-world drift; unconstrained.
	Mu float64
	// Lambda is the jump intensity lambda >= 0.
	Lambda float64
	// Gamma is the mean jump-size factor gamma >= 0, such that
	// E[e^Y - 1] = Gamma for a jump size Y.
	Gamma float64
	// SigmaJ is the jump-size log-volatility sigma_J >= 0.
	SigmaJ float64
	// Spot is the initial asset price S0 > 0.
	Spot float64
	// RiskNeutral selects the effective drift used by the path
	// generator: the curve rate when true, Mu when false.
	RiskNeutral bool

	curve *ratecurve.Curve
}

// New validates and builds a Data bundle. It fails on Sigma<0, Lambda<0,
// Gamma<0, SigmaJ<0, Spot<=0, or a nil curve; Mu is unconstrained.
func New(sigma, mu, lambda, gamma, sigmaJ, spot float64, riskNeutral bool, curve *ratecurve.Curve) (*Data, error) {
	if curve == nil {
		return nil, pricingerr.New(pricingerr.NullInput, "market data: rate curve is required")
	}
	if sigma < 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "market data: sigma must be non-negative")
	}
	if lambda < 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "market data: lambda must be non-negative")
	}
	if gamma < 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "market data: gamma must be non-negative")
	}
	if sigmaJ < 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "market data: sigmaJ must be non-negative")
	}
	if spot <= 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "market data: spot must be positive")
	}

	return &Data{
		Sigma:       sigma,
		Mu:          mu,
		Lambda:      lambda,
		Gamma:       gamma,
		SigmaJ:      sigmaJ,
		Spot:        spot,
		RiskNeutral: riskNeutral,
		curve:       curve,
	}, nil
}

// Curve returns the rate curve backing this market data bundle.
func (d *Data) Curve() *ratecurve.Curve { return d.curve }
