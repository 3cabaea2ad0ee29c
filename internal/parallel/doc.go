// Package parallel provides the fork-join loops the collision pipeline runs
// its stages on.
//
// Every loop splits [0, n) into contiguous chunks and blocks until all
// chunks are done. Loop bodies must only write their own output slots:
//
//	parallel.For(len(out), 256, func(start, end int) {
//		for i := start; i < end; i++ {
//			out[i] = f(in[i])
//		}
//	})
//
// The worker count is process-wide; see [SetNumThreads].
package parallel
