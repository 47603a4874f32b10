package engine

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// startCPUMonitor logs system CPU utilization on a 5s ticker while a
// pricing call is in flight, adapted from the teacher's
// positions/utils.go:monitorCPUUsage ticker loop. It is gated behind
// Driver.MonitorCPU so the default/test path never spawns it, and it runs
// on its own goroutine rather than inside any worker's hot loop, per
// spec.md §5's "no cooperative yielding inside hot loops". The returned
// stop function tears the monitor down.
func (d *Driver) startCPUMonitor(ctx context.Context) func() {
	if !d.MonitorCPU {
		return func() {}
	}

	monitorCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				percentages, err := cpu.PercentWithContext(monitorCtx, time.Second, false)
				if err == nil && len(percentages) > 0 {
					d.logger().Printf("engine: cpu usage %.2f%%", percentages[0])
				}
			}
		}
	}()

	return cancel
}
