// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package executor

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_ParallelForVisitsEveryIndex(t *testing.T) {
	defer Reset()
	p := Get()

	const n = 5000
	var seen [n]int32
	p.ParallelFor(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestPool_ParallelForZero(t *testing.T) {
	defer Reset()
	p := Get()
	called := false
	p.ParallelFor(0, func(int) { called = true })
	assert.False(t, called)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	defer Reset()
	a := Get()
	b := Get()
	assert.Same(t, a, b)
}

func TestRun_PropagatesFirstError(t *testing.T) {
	sentinel := errors.New("boom")
	err := Run(
		func() error { return nil },
		func() error { return sentinel },
		func() error { return nil },
	)
	assert.ErrorIs(t, err, sentinel)
}
