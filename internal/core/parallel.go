package core

import "sync"

// runParallel applies fn to every job on up to maxWorkers goroutines and
// returns the results in job order. If any call fails, the first error (by
// job order) is returned after all workers finish.
func runParallel[In, Out any](maxWorkers int, jobs []In, fn func(In) (Out, error)) ([]Out, error) {
	workers := min(len(jobs), maxWorkers)
	if workers < 1 {
		workers = 1
	}

	results := make([]Out, len(jobs))
	errs := make([]error, len(jobs))

	next := make(chan int, len(jobs))
	for i := range jobs {
		next <- i
	}
	close(next)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				results[i], errs[i] = fn(jobs[i])
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
