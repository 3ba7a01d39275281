// Package fanout runs independent per-file jobs on a bounded number of
// goroutines. Callers write results into a slice slot owned by the job
// index, so the outcome never depends on completion order.
package fanout

import "sync"

// Run calls fn(i) for every i in [0, n). With workers <= 1 the calls happen
// sequentially on the calling goroutine.
func Run(n, workers int, fn func(i int)) {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
