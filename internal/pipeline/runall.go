package pipeline

import "golang.org/x/sync/errgroup"

// RunAll fans a batch of jobs out over an errgroup.Group and waits for all
// of them, giving spec §5's "jobs are independent and may execute in
// parallel on separate threads" a concrete, testable shape. Each thunk is
// typically a single CompilationJob.Run or DecompilationJob.Run call
// closed over its job value. The first error cancels nothing (the core
// has no cancellation model, §5) but still short-circuits the returned
// error; every job still runs to completion.
func RunAll[T any](jobs []func() (T, error)) ([]T, error) {
	results := make([]T, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r, err := job()
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
