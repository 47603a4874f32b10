package pricing

import (
	"gonum.org/v1/gonum/mat"
)

// quadraticCoeffs holds the OLS fit Y ~ beta0 + beta1*S + beta2*S^2 used for
// the LSM continuation-value regression, per spec.md §4.6.
type quadraticCoeffs struct {
	beta0, beta1, beta2 float64
}

func (c quadraticCoeffs) continuation(s float64) float64 {
	return c.beta0 + c.beta1*s + c.beta2*s*s
}

// fitQuadratic regresses y on the basis {1, s, s^2} by ordinary least
// squares. If the design matrix is singular or rank-deficient (too few
// distinct in-the-money points, degenerate prices), it reports ok=false and
// the caller falls back to a zero-valued continuation estimate, per
// spec.md §4.6's regression-degenerate recovery.
func fitQuadratic(s, y []float64) (quadraticCoeffs, bool) {
	n := len(s)
	if n < 3 {
		return quadraticCoeffs{}, false
	}

	a := mat.NewDense(n, 3, nil)
	for i, si := range s {
		a.Set(i, 0, 1)
		a.Set(i, 1, si)
		a.Set(i, 2, si*si)
	}
	b := mat.NewVecDense(n, y)

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return quadraticCoeffs{}, false
	}

	coeffs := quadraticCoeffs{beta0: beta.AtVec(0), beta1: beta.AtVec(1), beta2: beta.AtVec(2)}
	if !finite(coeffs.beta0) || !finite(coeffs.beta1) || !finite(coeffs.beta2) {
		return quadraticCoeffs{}, false
	}
	return coeffs, true
}

func finite(x float64) bool {
	return x == x && x < maxFinite && x > -maxFinite
}

const maxFinite = 1e300
