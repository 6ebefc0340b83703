package cull

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cull/common"
)

// groupsPerWorker is how many chunks each Dispatch is split into per worker,
// so uneven per-item cost still balances across the pool.
const groupsPerWorker = 4

// Dispatcher runs data-parallel kernels on a bounded set of reusable
// goroutines. Workers persist across frames, avoiding per-frame goroutine
// spawn/teardown overhead.
//
// Every Dispatch is a full barrier: it returns only after all of its kernel
// invocations have completed, and their writes are visible to the caller.
// Kernels must not block and must only write to memory owned by their own
// index, apart from explicit atomic operations.
type Dispatcher struct {
	pool    worker.DynamicWorkerPool
	workers int
	taskID  atomic.Int64
}

// NewDispatcher creates a Dispatcher.
//
// Parameters:
//   - workers: number of pool goroutines; values < 1 use NumCPU-1 (at least 1)
//
// Returns:
//   - *Dispatcher: the dispatcher
func NewDispatcher(workers int) *Dispatcher {
	if workers < 1 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &Dispatcher{
		// Queue size of 256 covers groupsPerWorker chunks for any realistic core count.
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
	}
}

// Workers returns the configured worker count.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Dispatch invokes kernel(i) for every i in [0, n) across the pool and waits
// for all invocations to finish. pool.Wait() is not used since it blocks
// until workers idle-exit, which is unsuitable for frame-rate workloads; a
// WaitGroup provides the per-dispatch barrier instead.
//
// Parameters:
//   - n: number of kernel invocations
//   - kernel: the per-item function
func (d *Dispatcher) Dispatch(n int, kernel func(i int)) {
	if n <= 0 {
		return
	}
	groups := min(n, d.workers*groupsPerWorker)
	per := common.DivCeil(n, groups)

	var wg sync.WaitGroup
	for start := 0; start < n; start += per {
		end := min(start+per, n)
		wg.Add(1)
		d.pool.SubmitTask(worker.Task{
			ID: int(d.taskID.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					kernel(i)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}
