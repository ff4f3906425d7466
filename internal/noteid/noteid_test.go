// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package noteid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_HasFixedLength(t *testing.T) {
	id := New()
	assert.Len(t, id, Length)
}

func TestNew_DiffersAcrossCalls(t *testing.T) {
	assert.NotEqual(t, New(), New())
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(id string) bool {
		calls++
		return calls <= 2 // report the first two candidates as taken
	}

	first := Generate(exists)
	assert.Equal(t, 3, calls, "two collisions must cost two retries")
	assert.Len(t, first, Length)

	exists2 := func(id string) bool { return id == first }
	second := Generate(exists2)
	assert.NotEqual(t, first, second)
}
