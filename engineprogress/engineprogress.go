// Package engineprogress adapts the engine's plain func(float64) progress
// sink (spec.md §6: "the engine MAY optionally emit progress updates ...
// advisory only") to an mpb progress bar, for CLI-hosted callers. It gives
// the teacher's indirectly-pulled github.com/vbauerster/mpb/v7 dependency a
// direct, exercised home without coupling the core engine packages to any
// particular terminal UI, continuing the spirit of the teacher's
// positions/utils.go:printProgress percentage loop.
package engineprogress

import (
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// NewBarSink registers an mpb bar named name, sized for total units of
// work, and returns a callback suitable for engine.Driver.Progress. The
// callback expects a monotonically non-decreasing fraction in [0,1].
func NewBarSink(p *mpb.Progress, name string, total int64) func(fraction float64) {
	bar := p.AddBar(total,
		mpb.PrependDecorators(decor.Name(name)),
		mpb.AppendDecorators(decor.Percentage(), decor.Name(" "), decor.AverageETA(decor.ET_STYLE_GO)),
	)

	var reported int64
	return func(fraction float64) {
		target := int64(fraction * float64(total))
		if delta := target - reported; delta > 0 {
			bar.IncrBy(int(delta))
			reported = target
		}
	}
}
