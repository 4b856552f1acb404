package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 8} {
		var count atomic.Int64
		pool := Start(workers)
		for range 100 {
			pool.Do(func() { count.Add(1) })
		}
		pool.Wait()

		if n := count.Load(); n != 100 {
			t.Errorf("workers=%d: ran %d jobs, want 100", workers, n)
		}
	}
}

func TestPoolWaitTwice(t *testing.T) {
	pool := Start(4)
	pool.Do(func() {})
	pool.Wait()
	pool.Wait()
}

func TestEach(t *testing.T) {
	seen := make([]int, 50)
	Each(4, len(seen), func(i int) { seen[i] = i + 1 })
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("slot %d = %d, want %d", i, v, i+1)
		}
	}

	// more workers than jobs, and no jobs at all
	Each(16, 1, func(i int) { seen[i] = -1 })
	if seen[0] != -1 {
		t.Fatal("single job not run")
	}
	Each(3, 0, func(int) { t.Fatal("job run for empty range") })
}
