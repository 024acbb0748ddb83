package parallel

import (
	"sync"
	"testing"
)

func TestParallelizeCoversAllIndices(t *testing.T) {
	const n = 1000
	var mu sync.Mutex
	seen := make([]int, n)

	Parallelize(n, func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		for i := start; i < end; i++ {
			seen[i]++
		}
	})

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestParallelizeZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) {
		if start < end {
			called = true
		}
	})
	if called {
		t.Error("worker received a non-empty range for zero items")
	}
}

func TestParallelizeWithThresholdSequentialBelow(t *testing.T) {
	// Below the threshold the single chunk spans the whole range.
	var chunks [][2]int
	var mu sync.Mutex
	ParallelizeWithThreshold(10, 64, func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		chunks = append(chunks, [2]int{start, end})
	})

	if len(chunks) != 1 || chunks[0] != [2]int{0, 10} {
		t.Errorf("chunks = %v, want one chunk [0, 10)", chunks)
	}
}
