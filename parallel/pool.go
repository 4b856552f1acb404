package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted jobs on a fixed number of goroutines. A pool with a
// single worker runs every job inline on the submitting goroutine.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan func()
	stop func()
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{stop: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.jobs = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.jobs {
				f()
			}
		})
	}
	pool.stop = sync.OnceFunc(func() { close(pool.jobs) })

	return pool
}

// Do queues f, blocking while every worker is busy and the queue is full.
// Do must not be called after Wait.
func (p *Pool) Do(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Wait stops accepting jobs and returns once all queued jobs have run.
func (p *Pool) Wait() {
	p.stop()
	p.wg.Wait()
}

// Each calls fn(i) for i in [0, n) on a pool of numWorkers goroutines and
// returns when all calls are done.
func Each(numWorkers, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	pool := Start(min(numWorkers, n))
	for i := range n {
		pool.Do(func() { fn(i) })
	}
	pool.Wait()
}
