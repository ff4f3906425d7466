// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package executor provides the process-wide work-stealing pool shared by
// the Note Store's parallel sort, the Note Store's parallel visitor, and
// the Emission Pipeline's pass-2 fan-out. It is constructed lazily on
// first use and lives for the process lifetime unless explicitly Reset.
package executor

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool runs work items across a fixed number of goroutines, each pulling
// the next unclaimed index from a shared cursor rather than a
// pre-partitioned static range — the dynamic-pull equivalent of
// work-stealing for embarrassingly parallel index ranges.
type Pool struct {
	workers int
}

var (
	instance   *Pool
	instanceMu sync.Mutex
)

// Get returns the process-wide pool, constructing it on first call.
func Get() *Pool {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = newPool(runtime.GOMAXPROCS(0))
	}
	return instance
}

// Reset tears down the process-wide pool. Callers must not have work
// in-flight across a Reset; this is a documented precondition, not an
// enforced one.
func Reset() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
}

func newPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers reports the configured parallelism.
func (p *Pool) Workers() int { return p.workers }

// ParallelFor invokes fn(i) for every i in [0, n), fanning out across the
// pool's workers. It blocks until every invocation has returned. Each call
// starts its own goroutines, so a nested ParallelFor inside fn runs on a
// fresh set of goroutines rather than waiting on the caller's.
func (p *Pool) ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := p.workers
	if workers > n {
		workers = n
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}

// Run executes the given thunks concurrently, joining them with
// errgroup.Group and returning the first error encountered, if any. Used
// for the handful of call sites that fan out a small, fixed number of
// heterogeneous tasks rather than a homogeneous index range.
func Run(thunks ...func() error) error {
	var g errgroup.Group
	for _, t := range thunks {
		t := t
		g.Go(t)
	}
	return g.Wait()
}
