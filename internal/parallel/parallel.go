package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var numThreads atomic.Int64

func init() {
	numThreads.Store(int64(runtime.NumCPU()))
}

// SetNumThreads sets the worker limit for subsequent loops. n <= 0 restores
// runtime.NumCPU().
func SetNumThreads(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	numThreads.Store(int64(n))
}

func NumThreads() int {
	return int(numThreads.Load())
}

// chunks returns the chunk size and worker count for n items. A single
// worker means the range runs inline.
func chunks(n, minChunk int) (size, workers int) {
	if minChunk < 1 {
		minChunk = 1
	}
	workers = NumThreads()
	if n <= minChunk || workers <= 1 {
		return n, 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	return (n + workers - 1) / workers, workers
}

// For executes fn over [0, n) in chunks of at least minChunk items.
func For(n, minChunk int, fn func(start, end int)) {
	_ = ForErr(n, minChunk, func(start, end int) error {
		fn(start, end)
		return nil
	})
}

// ForErr is For with failing chunks. The first error is returned once all
// chunks have finished.
func ForErr(n, minChunk int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	size, workers := chunks(n, minChunk)
	if workers == 1 {
		return fn(0, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}

// Reduce maps each chunk to a partial result and merges the partials in
// chunk order. zero is the identity of merge.
func Reduce[T any](n, minChunk int, zero T, chunk func(start, end int) T, merge func(a, b T) T) T {
	if n <= 0 {
		return zero
	}
	size, _ := chunks(n, minChunk)
	partial := make([]T, (n+size-1)/size)
	For(len(partial), 1, func(s, e int) {
		for c := s; c < e; c++ {
			start := c * size
			partial[c] = chunk(start, min(start+size, n))
		}
	})
	acc := zero
	for _, p := range partial {
		acc = merge(acc, p)
	}
	return acc
}

// ExclusiveScan replaces counts with their exclusive prefix sums and returns
// the total.
func ExclusiveScan(counts []int) int {
	total := 0
	for i, c := range counts {
		counts[i] = total
		total += c
	}
	return total
}
