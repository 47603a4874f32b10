// Package option implements the tagged-variant option contract described in
// spec.md §4.3/§9: European, American, or Bermudan, replacing the inheritance
// hierarchy of the original system with a single struct carrying a family
// tag, per the REDESIGN FLAGS in spec.md §9.
package option

import (
	"math"
	"sort"

	"github.com/quantmc/jdlsm/pricingerr"
)

// Side is the payoff side of an option contract.
type Side int

const (
	// Call pays max(S-K, 0).
	Call Side = iota
	// Put pays max(K-S, 0).
	Put
)

// Family identifies which of the three supported exercise styles a
// Contract represents.
type Family int

const (
	// European is exercisable only at maturity T.
	European Family = iota
	// American is exercisable at any time up to maturity T.
	American
	// Bermudan is exercisable on a finite set of interior dates.
	Bermudan
)

// Contract is a single-asset equity option: one of European, American, or
// Bermudan, carrying strike K, maturity T, and payoff side. Bermudan
// contracts additionally carry a non-empty, strictly-interior set of
// exercise times.
type Contract struct {
	family Family
	strike float64
	expiry float64
	side   Side
	// exerciseTimes holds the sorted, de-duplicated interior exercise
	// dates for a Bermudan contract; empty for European and American.
	exerciseTimes []float64
}

// NewEuropean validates K>0, T>0 and builds a European contract.
func NewEuropean(strike, expiry float64, side Side) (*Contract, error) {
	if err := validateKT(strike, expiry); err != nil {
		return nil, err
	}
	return &Contract{family: European, strike: strike, expiry: expiry, side: side}, nil
}

// NewAmerican validates K>0, T>0 and builds an American contract.
func NewAmerican(strike, expiry float64, side Side) (*Contract, error) {
	if err := validateKT(strike, expiry); err != nil {
		return nil, err
	}
	return &Contract{family: American, strike: strike, expiry: expiry, side: side}, nil
}

// NewBermudan validates K>0, T>0, and that exerciseTimes is non-empty with
// every entry strictly in (0, T), per spec.md §4.3/§8.
func NewBermudan(strike, expiry float64, side Side, exerciseTimes []float64) (*Contract, error) {
	if err := validateKT(strike, expiry); err != nil {
		return nil, err
	}
	if len(exerciseTimes) == 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "bermudan option: exercise time set must be non-empty")
	}

	seen := make(map[float64]struct{}, len(exerciseTimes))
	dedup := make([]float64, 0, len(exerciseTimes))
	for _, t := range exerciseTimes {
		if t <= 0 || t >= expiry {
			return nil, pricingerr.New(pricingerr.InvalidArgument, "bermudan option: exercise times must lie strictly between 0 and T")
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		dedup = append(dedup, t)
	}
	sort.Float64s(dedup)

	return &Contract{family: Bermudan, strike: strike, expiry: expiry, side: side, exerciseTimes: dedup}, nil
}

func validateKT(strike, expiry float64) error {
	if strike <= 0 {
		return pricingerr.New(pricingerr.InvalidArgument, "option: strike must be positive")
	}
	if expiry <= 0 {
		return pricingerr.New(pricingerr.InvalidArgument, "option: maturity must be positive")
	}
	return nil
}

// Family reports whether this is a European, American, or Bermudan contract.
func (c *Contract) Family() Family { return c.family }

// Strike returns K.
func (c *Contract) Strike() float64 { return c.strike }

// Expiry returns T.
func (c *Contract) Expiry() float64 { return c.expiry }

// Side returns Call or Put.
func (c *Contract) Side() Side { return c.side }

// ExerciseTimes returns the Bermudan contract's interior exercise dates.
// It is empty for European and American contracts.
func (c *Contract) ExerciseTimes() []float64 {
	return c.exerciseTimes
}

// Payoff returns the immediate exercise value max(S-K,0) for a Call or
// max(K-S,0) for a Put.
func (c *Contract) Payoff(spot float64) float64 {
	if c.side == Call {
		return math.Max(spot-c.strike, 0)
	}
	return math.Max(c.strike-spot, 0)
}
