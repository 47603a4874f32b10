package pricing

import (
	"log"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/path"
	"github.com/quantmc/jdlsm/ratecurve"
)

// LSMSteps is the fixed number of time steps the Longstaff-Schwartz
// estimator discretises American/Bermudan exercise into, per spec.md §4.6.
const LSMSteps = 50

// ExerciseSteps computes the exercise-step set E subseteq {1,...,M} for a
// contract discretised into M steps of size dt, per spec.md §4.6: American
// contracts may exercise at every step; Bermudan contracts snap each
// interior exercise date to the nearest integer step, duplicates collapsing
// into one set entry.
func ExerciseSteps(contract *option.Contract, steps int, dt float64) map[int]bool {
	e := make(map[int]bool, steps)
	switch contract.Family() {
	case option.American:
		for t := 1; t <= steps; t++ {
			e[t] = true
		}
	case option.Bermudan:
		for _, date := range contract.ExerciseTimes() {
			step := int(math.Round(date / dt))
			if step < 1 {
				step = 1
			}
			if step > steps {
				step = steps
			}
			e[step] = true
		}
	}
	return e
}

// PathMatrices bundles the N x (M+1) price matrix and cash-flow matrix the
// LSM estimator operates on, per spec.md §3. Rows are loaned to workers as
// disjoint, non-overlapping slices during generation (RawRowView gives a
// worker direct, lock-free write access to its assigned rows) and are then
// read single-threaded during backward induction.
type PathMatrices struct {
	N, Steps int
	Prices   *mat.Dense
	Cash     *mat.Dense
}

// NewPathMatrices allocates the zero-initialised N x (Steps+1) matrices.
func NewPathMatrices(n, steps int) *PathMatrices {
	return &PathMatrices{
		N:      n,
		Steps:  steps,
		Prices: mat.NewDense(n, steps+1, nil),
		Cash:   mat.NewDense(n, steps+1, nil),
	}
}

// GenerateRows fills rows [start, end) of the price matrix with independent
// paths drawn from gen, and seeds each row's terminal cash flow with the
// contract's immediate payoff at maturity. A worker owns this row range
// exclusively; no other worker touches it.
func (m *PathMatrices) GenerateRows(gen *path.Generator, contract *option.Contract, start, end int) {
	for i := start; i < end; i++ {
		row := m.Prices.RawRowView(i)
		gen.Path(row, contract.Expiry(), m.Steps)
		m.Cash.Set(i, m.Steps, contract.Payoff(row[m.Steps]))
	}
}

// RunBackwardInduction performs the single-threaded Longstaff-Schwartz
// backward pass over matrices already fully populated by GenerateRows,
// returning the discounted price, per spec.md §4.6. logger receives a
// diagnostic line whenever a step's regression degenerates and falls back
// to zero continuation; that fallback is recoverable and never surfaces as
// an error, per spec.md §7.
func RunBackwardInduction(m *PathMatrices, contract *option.Contract, curve *ratecurve.Curve, exerciseSteps map[int]bool, logger *log.Logger) float64 {
	n := m.N
	dt := contract.Expiry() / float64(m.Steps)

	for t := m.Steps - 1; t >= 1; t-- {
		// One-step discount factor at the rate prevailing at this step,
		// per spec.md §4.6: D_t = exp(-r(t*dt)*dt).
		rT := curve.Rate(float64(t) * dt)
		d := math.Exp(-rT * dt)

		if !exerciseSteps[t] {
			for i := 0; i < n; i++ {
				m.Cash.Set(i, t, m.Cash.At(i, t+1)*d)
			}
			continue
		}

		itmMask := make([]bool, n)
		itm := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if contract.Payoff(m.Prices.At(i, t)) > 0 {
				itmMask[i] = true
				itm = append(itm, i)
			}
		}

		if len(itm) == 0 {
			for i := 0; i < n; i++ {
				m.Cash.Set(i, t, m.Cash.At(i, t+1)*d)
			}
			continue
		}

		s := make([]float64, len(itm))
		y := make([]float64, len(itm))
		for k, i := range itm {
			s[k] = m.Prices.At(i, t)
			y[k] = m.Cash.At(i, t+1) * d
		}

		coeffs, ok := fitQuadratic(s, y)
		if !ok {
			if logger != nil {
				logger.Printf("lsm: regression degenerate at step %d (itm=%d), falling back to zero continuation", t, len(itm))
			}
			coeffs = quadraticCoeffs{}
		}

		for k, i := range itm {
			immediate := contract.Payoff(s[k])
			continuation := coeffs.continuation(s[k])
			if immediate >= continuation {
				m.Cash.Set(i, t, immediate)
				for future := t + 1; future <= m.Steps; future++ {
					m.Cash.Set(i, future, 0)
				}
			} else {
				m.Cash.Set(i, t, y[k])
			}
		}

		for i := 0; i < n; i++ {
			if !itmMask[i] {
				m.Cash.Set(i, t, m.Cash.At(i, t+1)*d)
			}
		}
	}

	// Final aggregation discounts C[i,1] by a single Delta-t step at the
	// curve rate at tau=0 (which flat-extrapolates to the first curve
	// point), not by the full discount back to each path's own exercise
	// step. This is a faithful replication of the source's behaviour per
	// spec.md §9's open question, not a cleaner from-scratch discounting.
	d0 := math.Exp(-curve.Rate(0) * dt)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.Cash.At(i, 1) * d0
	}
	return sum / float64(n)
}
