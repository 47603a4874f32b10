package engine

// progressReporter serialises progress callbacks through a single
// goroutine, adapted from the teacher's positions/utils.go:printProgress
// channel-fed loop. Workers only ever send a completion delta; the single
// consumer goroutine is what turns those deltas into the monotonically
// non-decreasing fraction spec.md §6 requires, since computing and
// invoking Progress from multiple worker goroutines directly would let
// goroutine scheduling reorder the calls arbitrarily.
type progressReporter struct {
	report func(delta int)
	stop   func()
}

func (d *Driver) newProgressReporter(total int) progressReporter {
	if d.Progress == nil || total == 0 {
		return progressReporter{report: func(int) {}, stop: func() {}}
	}

	ch := make(chan int, d.Workers)
	done := make(chan struct{})

	go func() {
		defer close(done)
		completed := 0
		for delta := range ch {
			completed += delta
			d.Progress(float64(completed) / float64(total))
		}
	}()

	return progressReporter{
		report: func(delta int) { ch <- delta },
		stop: func() {
			close(ch)
			<-done
		},
	}
}
