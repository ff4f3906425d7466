// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package notestore

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/notecore/chartcore/internal/coreerr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func tapNote(id string, t float64) Note {
	return Note{Side: SideCenter, Type: TypeTap, Time: t, Width: 1, Position: 2.5, ID: id}
}

// S1 — CRUD smoke.
func TestStore_CRUDSmoke(t *testing.T) {
	s := New()

	require.NoError(t, s.Create(tapNote("AAAAAAAAA", 100)))
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Exists("AAAAAAAAA"))

	s.Sort()
	n, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, n.Time)

	require.NoError(t, s.Delete("AAAAAAAAA"))
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Exists("AAAAAAAAA"))
}

// S2 — Hold pairing.
func TestStore_HoldPairing(t *testing.T) {
	s := New()

	hold := Note{
		Side: SideCenter, Type: TypeHold,
		Time: 1000, LastTime: 500, Width: 1, Position: 2.5,
		ID: "HHHHHHHHH", SubID: "SSSSSSSSS",
	}
	require.NoError(t, s.Create(hold))

	withSub := s.Snapshot(false)
	assert.Len(t, withSub, 2)

	withoutSub := s.Snapshot(true)
	require.Len(t, withoutSub, 1)
	assert.Equal(t, "HHHHHHHHH", withoutSub[0].ID)

	sub, err := s.Get("SSSSSSSSS")
	require.NoError(t, err)
	assert.Equal(t, TypeSub, sub.Type)
	assert.Equal(t, 1500.0, sub.Time)
	assert.Equal(t, 1000.0, sub.BeginTime)
}

// S3 — Range query.
func TestStore_RangeByTime(t *testing.T) {
	s := New()
	times := []float64{10, 20, 30, 40, 50}
	for i, tm := range times {
		require.NoError(t, s.Create(tapNote(idFor(i), tm)))
	}
	s.Sort()

	lo, hi, err := s.RangeByTime(15, 45)
	require.NoError(t, err)

	var got []float64
	for i := lo; i < hi; i++ {
		n, err := s.At(i)
		require.NoError(t, err)
		got = append(got, n.Time)
	}
	assert.Equal(t, []float64{20, 30, 40}, got)
}

// idFor derives a unique fixed-length id from i by encoding it in base 36,
// zero-padded. Unique for any i in [0, 36^9).
func idFor(i int) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, NoteIDLength)
	for j := NoteIDLength - 1; j >= 0; j-- {
		b[j] = alphabet[i%36]
		i /= 36
	}
	return string(b)
}

// Invariant 1: id uniqueness.
func TestStore_CreateDuplicateID(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(tapNote("DUPDUPDUP", 1)))
	err := s.Create(tapNote("DUPDUPDUP", 2))
	assert.ErrorIs(t, err, coreerr.ErrAlreadyExists)
}

// Invariant 2: primary ordering after sort, ties broken by insertion order.
func TestStore_SortOrdering(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(tapNote("BBBBBBBBB", 5)))
	require.NoError(t, s.Create(tapNote("AAAAAAAAA", 5)))
	require.NoError(t, s.Create(tapNote("CCCCCCCCC", 1)))
	s.Sort()

	n0, _ := s.At(0)
	n1, _ := s.At(1)
	n2, _ := s.At(2)
	assert.Equal(t, "CCCCCCCCC", n0.ID)
	assert.Equal(t, "BBBBBBBBB", n1.ID)
	assert.Equal(t, "AAAAAAAAA", n2.ID)
}

// Invariant 3: hold view is exactly the set of live holds, descending by
// last_time.
func TestStore_HoldOnlyView(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(Note{Type: TypeHold, Time: 0, LastTime: 100, ID: "H00000001", SubID: "S00000001"}))
	require.NoError(t, s.Create(Note{Type: TypeHold, Time: 0, LastTime: 300, ID: "H00000002", SubID: "S00000002"}))
	require.NoError(t, s.Create(tapNote("T00000001", 50)))
	s.Sort()

	require.Len(t, s.holdOnly, 2)
	assert.Equal(t, "H00000002", s.slots[s.holdOnly[0]].ID)
	assert.Equal(t, "H00000001", s.slots[s.holdOnly[1]].ID)
}

// Invariant 5: sort idempotence.
func TestStore_SortIdempotent(t *testing.T) {
	s := New()
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Create(tapNote(idFor(i), float64(50-i))))
	}
	s.Sort()
	first := s.Snapshot(false)
	s.Sort()
	second := s.Snapshot(false)
	assert.Equal(t, first, second)
}

// Invariant 6: snapshot isolation for the parallel visitor.
func TestStore_ForEachParallel_SnapshotIsolation(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Create(tapNote(idFor(i), float64(i))))
	}

	var mu sync.Mutex
	visited := make(map[string]bool)

	s.ForEachParallel(func(n Note) {
		mu.Lock()
		visited[n.ID] = true
		mu.Unlock()
	})

	require.NoError(t, s.Create(tapNote("ZZZZZZZZZ", 999)))
	assert.False(t, visited["ZZZZZZZZZ"])
	assert.Len(t, visited, 100)
}

// S5 — Parallel sort correctness.
func TestStore_ParallelSortCorrectness(t *testing.T) {
	s := New()
	rng := rand.New(rand.NewSource(1))
	const n = 20000
	for i := 0; i < n; i++ {
		require.NoError(t, s.Create(tapNote(idFor(i), float64(rng.Intn(1000000)))))
	}
	s.Sort()

	for i := 0; i < n-1; i++ {
		a, err := s.At(i)
		require.NoError(t, err)
		b, err := s.At(i + 1)
		require.NoError(t, err)
		assert.LessOrEqual(t, a.Time, b.Time)
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	s.ForEachParallel(func(note Note) {
		mu.Lock()
		seen[note.ID]++
		mu.Unlock()
	})
	assert.Len(t, seen, n)
	for _, c := range seen {
		assert.Equal(t, 1, c)
	}
}

func TestStore_OutOfOrderGuards(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(tapNote("AAAAAAAAA", 1)))

	_, err := s.At(0)
	assert.ErrorIs(t, err, coreerr.ErrOutOfOrder)

	_, err = s.IndexOf("AAAAAAAAA")
	assert.ErrorIs(t, err, coreerr.ErrOutOfOrder)

	_, _, err = s.RangeByTime(0, 10)
	assert.ErrorIs(t, err, coreerr.ErrOutOfOrder)
}

func TestStore_DeleteCascadesToSub(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(Note{Type: TypeHold, Time: 0, LastTime: 10, ID: "H00000003", SubID: "S00000003"}))
	require.NoError(t, s.Delete("H00000003"))
	assert.False(t, s.Exists("S00000003"))
	assert.Equal(t, 0, s.Count())
}
