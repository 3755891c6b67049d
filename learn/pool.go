// File: pool.go
// Role: the §5 worker pool — a shared, mutex-guarded job-index counter
//       drained by an errgroup.Group of up to Config.NbThreads workers,
//       running as a synchronous loop when NbThreads <= 1.
//       Grounded in core/concurrency_test.go's goroutine+mutex idiom,
//       generalized and handed its lifecycle/error-propagation to
//       golang.org/x/sync/errgroup.

package learn

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// runPool invokes work(idx) exactly once for every idx in [0, n), in
// ascending order if nbThreads <= 1 (a synchronous loop), else via up to nbThreads goroutines each popping the next idx
// off a shared mutex-guarded counter. A request for nbThreads > 1
// against a non-copyable environment fails ErrConcurrencyViolation
// without running any work.
func runPool(n, nbThreads int, copyable bool, work func(idx int) error) error {
	if n == 0 {
		return nil
	}
	if nbThreads > 1 && !copyable {
		return ErrConcurrencyViolation
	}
	if nbThreads <= 1 {
		for i := 0; i < n; i++ {
			if err := work(i); err != nil {
				return err
			}
		}

		return nil
	}

	workers := nbThreads
	if workers > n {
		workers = n
	}

	var (
		mu   sync.Mutex
		next int
	)
	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				mu.Lock()
				if next >= n {
					mu.Unlock()

					return nil
				}
				idx := next
				next++
				mu.Unlock()

				if err := work(idx); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}

// hashInt64 combines v into an FNV-1a-style fold, the same scheme
// archive.SnapshotHash uses, so per-iteration seeds and per-component
// hashes are computed the one way throughout the module.
func hashInt64(v int64) uint64 {
	var h uint64 = 1469598103934665603
	const prime = 1099511628211
	u := uint64(v)
	for i := 0; i < 8; i++ {
		h ^= (u >> (8 * uint(i))) & 0xff
		h *= prime
	}

	return h
}

// hashCombine derives the deterministic per-iteration seed
// hash(gen) XOR hash(iter) spec §4.I's evaluateJob requires.
func hashCombine(gen, iter int) uint64 {
	return hashInt64(int64(gen)) ^ hashInt64(int64(iter))
}
