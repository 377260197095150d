package scanner

import (
	"context"
	"sync"
)

// probe is one unit of work in the probing phase. run stores its own result;
// it must return promptly once ctx is done.
type probe struct {
	name string
	run  func(ctx context.Context)
}

// runProbes starts every probe on its own goroutine and waits until all of
// them return or ctx is done. It reports the names of probes still running
// when ctx ended; the slice is empty when every probe finished.
func runProbes(ctx context.Context, probes []probe) []string {
	var mu sync.Mutex
	pending := make(map[string]bool, len(probes))
	for _, p := range probes {
		pending[p.name] = true
	}

	var wg sync.WaitGroup
	for _, p := range probes {
		wg.Add(1)
		go func(p probe) {
			defer wg.Done()
			p.run(ctx)
			mu.Lock()
			delete(pending, p.name)
			mu.Unlock()
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	var unfinished []string
	for _, p := range probes {
		if pending[p.name] {
			unfinished = append(unfinished, p.name)
		}
	}
	return unfinished
}
