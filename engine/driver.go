// Package engine implements the parallel driver described in spec.md §4.7:
// a worker pool scoped to a single pricing call that splits N simulations
// across W workers, joins their results, and enforces the cancel-on-first-
// failure error policy of spec.md §5/§7.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantmc/jdlsm/market"
	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/path"
	"github.com/quantmc/jdlsm/pricing"
	"github.com/quantmc/jdlsm/pricingerr"
)

// ProgressFunc receives a monotonically non-decreasing fraction in [0,1].
// It is advisory only, per spec.md §6, and has no effect on pricing.
type ProgressFunc func(fraction float64)

// Driver creates a fixed-size worker pool per pricing call, per spec.md §5:
// no long-lived global pool. A Driver is reusable across calls but spawns a
// fresh pool for each one.
type Driver struct {
	// Workers is W, the pool size.
	Workers int
	// Seed is the master seed every worker's PRNG stream is derived
	// from via path.SplitMix64Seeds. Zero means "derive one from
	// crypto/rand", matching the teacher's ambient-global-source
	// default but recorded here for reproducibility, per spec.md §9.
	Seed uint64
	// Logger receives diagnostic-level messages (regression
	// degeneracy, CPU usage); it never affects observable semantics,
	// per spec.md §7. Defaults to log.Default() when nil.
	Logger *log.Logger
	// Progress, if set, is invoked each time a worker finishes its chunk
	// of paths. Optional, per spec.md §6.
	Progress ProgressFunc
	// MonitorCPU, if set, logs CPU utilization on a 5s ticker while a
	// pricing call is in flight, adapted from the teacher's
	// positions/utils.go:monitorCPUUsage.
	MonitorCPU bool
}

// New builds a Driver with w workers, per spec.md §8's boundary rule that
// W<=0 is an InvalidArgument.
func New(w int) (*Driver, error) {
	if w <= 0 {
		return nil, pricingerr.New(pricingerr.InvalidArgument, "engine: worker count must be positive")
	}
	return &Driver{Workers: w, Logger: log.Default()}, nil
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

func (d *Driver) masterSeed() uint64 {
	if d.Seed != 0 {
		return d.Seed
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return binary.LittleEndian.Uint64(buf[:])
	}
	return uint64(time.Now().UnixNano())
}

// chunkSizes splits n items into w chunks differing by at most 1, per
// spec.md §4.5/§4.7.
func chunkSizes(n, w int) []int {
	base := n / w
	rem := n % w
	sizes := make([]int, w)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

// PriceEuropean runs the European estimator of spec.md §4.5: each worker
// draws its chunk of paths with its own path generator and accumulates
// payoff moments; the driver joins and discounts the combined mean.
func (d *Driver) PriceEuropean(ctx context.Context, contract *option.Contract, data *market.Data, n int) (pricing.EuropeanResult, error) {
	if contract.Family() != option.European {
		return pricing.EuropeanResult{}, pricingerr.New(pricingerr.InvalidArgument, "engine: PriceEuropean requires a European contract")
	}
	if n <= 0 {
		return pricing.EuropeanResult{}, pricingerr.New(pricingerr.InvalidArgument, "engine: N must be positive")
	}

	sizes := chunkSizes(n, d.Workers)
	seeds := path.SplitMix64Seeds(d.masterSeed(), d.Workers)
	partials := make([]pricing.EuropeanPartial, d.Workers)

	stopMonitor := d.startCPUMonitor(ctx)
	defer stopMonitor()

	progress := d.newProgressReporter(n)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < d.Workers; w++ {
		w := w
		if sizes[w] == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen := path.New(data, seeds[w])
			partials[w] = pricing.EuropeanChunk(gen, contract, sizes[w], pricing.EuropeanSteps)
			progress.report(sizes[w])
			return nil
		})
	}

	err := g.Wait()
	progress.stop()
	if err != nil {
		return pricing.EuropeanResult{}, pricingerr.Wrap(pricingerr.WorkerFailure, "engine: european pricing worker failed", err)
	}

	discount := data.Curve().Discount(contract.Expiry())
	return pricing.CombineEuropeanPartials(partials, discount), nil
}

// PriceLSM runs the Least-Squares Monte Carlo estimator of spec.md §4.6 for
// American or Bermudan contracts: workers populate disjoint row ranges of
// the shared price matrix, the driver joins, then runs the single-threaded
// backward induction (parallelising that pass is out of scope per §5).
func (d *Driver) PriceLSM(ctx context.Context, contract *option.Contract, data *market.Data, n int) (float64, error) {
	switch contract.Family() {
	case option.American, option.Bermudan:
	case option.European:
		return 0, pricingerr.New(pricingerr.InvalidArgument, "engine: PriceLSM requires an American or Bermudan contract")
	default:
		return 0, pricingerr.New(pricingerr.UnsupportedExerciseFamily, "engine: unrecognised option family")
	}
	if n <= 0 {
		return 0, pricingerr.New(pricingerr.InvalidArgument, "engine: N must be positive")
	}

	steps := pricing.LSMSteps
	dt := contract.Expiry() / float64(steps)
	exerciseSteps := pricing.ExerciseSteps(contract, steps, dt)

	matrices := pricing.NewPathMatrices(n, steps)
	sizes := chunkSizes(n, d.Workers)
	seeds := path.SplitMix64Seeds(d.masterSeed(), d.Workers)

	stopMonitor := d.startCPUMonitor(ctx)
	defer stopMonitor()

	progress := d.newProgressReporter(n)

	g, gctx := errgroup.WithContext(ctx)
	rowStart := 0
	for w := 0; w < d.Workers; w++ {
		size := sizes[w]
		start, end := rowStart, rowStart+size
		rowStart = end
		if size == 0 {
			continue
		}
		w := w
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen := path.New(data, seeds[w])
			matrices.GenerateRows(gen, contract, start, end)
			progress.report(size)
			return nil
		})
	}

	err := g.Wait()
	progress.stop()
	if err != nil {
		return 0, pricingerr.Wrap(pricingerr.WorkerFailure, "engine: lsm path generation worker failed", err)
	}

	// The join above establishes the happens-before needed to safely
	// read the shared matrices here, per spec.md §5.
	price := pricing.RunBackwardInduction(matrices, contract, data.Curve(), exerciseSteps, d.logger())
	return price, nil
}

