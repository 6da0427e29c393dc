package utils

import (
	"runtime"
	"sync"
)

// MultiThread runs f for every integer in [start, end), handing out chunks of opsPerThread
// indexes to runtime.NumCPU()*threadsPerCPU goroutines. It returns once every index has been
// processed.
//
// MultiThread assumes that end ≥ start and that f(i) only writes to state owned by index i, so the
// result does not depend on scheduling.
func MultiThread(start, end int, f func(int), opsPerThread, threadsPerCPU int) {
	if end <= start {
		return
	}

	if opsPerThread < 1 {
		opsPerThread = 1
	}

	if threadsPerCPU < 1 {
		threadsPerCPU = 1
	}

	numThreads := runtime.NumCPU() * threadsPerCPU
	if chunks := (end - start + opsPerThread - 1) / opsPerThread; chunks < numThreads {
		numThreads = chunks
	}

	index := start
	var indexMux sync.Mutex

	var wg sync.WaitGroup

	wg.Add(numThreads)
	for thread := 0; thread < numThreads; thread++ {
		go func() {
			defer wg.Done()

			for {
				indexMux.Lock()
				if index >= end {
					indexMux.Unlock()
					return
				}

				i := index
				index += opsPerThread
				indexMux.Unlock()

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					f(i)
				}
			}
		}()
	}

	wg.Wait()
}

// ForEach calls f for every index in [0, n). Small ranges run on the calling goroutine; ranges of
// at least threshold indexes are split with MultiThread.
func ForEach(n, threshold int, f func(int)) {
	if n < threshold {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	MultiThread(0, n, f, threshold/4+1, 1)
}
