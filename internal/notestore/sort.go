// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package notestore

import (
	"sort"

	"github.com/notecore/chartcore/internal/executor"
)

// parallelSortThreshold mirrors NOTES_ARRAY_PARALLEL_SORT_THRESHOLD from the
// layout constants: below this size a plain stable sort is cheaper than the
// overhead of fanning out across the executor.
const parallelSortThreshold = 10000

// stableSortSlots sorts ids in place using less, going parallel through the
// shared executor once the slice is large enough to be worth it. The sort
// is stable: ties keep their relative (insertion) order, matching a serial
// sort.SliceStable exactly.
func stableSortSlots(ids []int, less func(a, b int) bool) {
	if len(ids) < parallelSortThreshold {
		sort.SliceStable(ids, func(i, j int) bool { return less(ids[i], ids[j]) })
		return
	}

	pool := executor.Get()
	workers := pool.Workers()
	if workers < 2 {
		sort.SliceStable(ids, func(i, j int) bool { return less(ids[i], ids[j]) })
		return
	}

	chunkSize := (len(ids) + workers - 1) / workers
	chunks := make([][]int, 0, workers)
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}

	pool.ParallelFor(len(chunks), func(i int) {
		chunk := chunks[i]
		sort.SliceStable(chunk, func(a, b int) bool { return less(chunk[a], chunk[b]) })
	})

	merged := make([]int, 0, len(ids))
	idxs := make([]int, len(chunks))
	for {
		best := -1
		for c, chunk := range chunks {
			if idxs[c] >= len(chunk) {
				continue
			}
			if best == -1 || less(chunk[idxs[c]], chunks[best][idxs[best]]) {
				best = c
			}
		}
		if best == -1 {
			break
		}
		merged = append(merged, chunks[best][idxs[best]])
		idxs[best]++
	}
	copy(ids, merged)
}
