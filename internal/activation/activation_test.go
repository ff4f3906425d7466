// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecore/chartcore/internal/notestore"
)

func defaultConfig() Config {
	return Config{
		BaseResW:        1920,
		BaseResH:        1080,
		JudgeLineBottom: 200,
		JudgeLineSide:   250,
		ActivationAhead: 100,
	}
}

func containsID(entries []Entry, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// S4 — Activation viewport.
func TestEngine_ViewportScenario(t *testing.T) {
	store := notestore.New()
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeTap, Time: 1500, ID: "INSIDE001",
	}))
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeTap, Time: 3000, ID: "OUTSIDE01",
	}))
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideLeft, Type: notestore.TypeTap, Time: 1800, ID: "SIDEOUT01",
	}))
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeHold,
		Time: 500, LastTime: 2000, ID: "SPANHOLD1", SubID: "SPANSUB01",
	}))

	engine := New(store, defaultConfig())
	engine.SetRange(1000, 1)
	require.NoError(t, engine.Recalculate())

	active := engine.ActiveNotes()
	assert.True(t, containsID(active, "INSIDE001"))
	assert.False(t, containsID(active, "OUTSIDE01"))
	assert.False(t, containsID(active, "SIDEOUT01"))
	assert.True(t, containsID(active, "SPANHOLD1"))

	holds := engine.ActiveHolds()
	assert.True(t, containsID(holds, "SPANHOLD1"))

	lasting := engine.LastingHolds()
	assert.True(t, containsID(lasting, "SPANHOLD1"))
}

// Invariant 7: active_holds subset of active_notes by id; lasting_holds
// only contains holds starting before t.
func TestEngine_ActiveSubsetInvariant(t *testing.T) {
	store := notestore.New()
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeHold,
		Time: 1200, LastTime: 300, ID: "HOLDHOLD1", SubID: "HOLDSUB01",
	}))
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeTap, Time: 1300, ID: "TAPTAPTAP",
	}))

	engine := New(store, defaultConfig())
	engine.SetRange(1000, 1)
	require.NoError(t, engine.Recalculate())

	notesByID := map[string]bool{}
	for _, e := range engine.ActiveNotes() {
		notesByID[e.ID] = true
	}
	for _, e := range engine.ActiveHolds() {
		assert.True(t, notesByID[e.ID], "active hold %s must be in active notes", e.ID)
	}

	for _, e := range engine.LastingHolds() {
		n, err := store.Get(e.ID)
		require.NoError(t, err)
		assert.Less(t, n.BeginTime, 1000.0)
	}
}

func TestEngine_DedupesRepeatedScan(t *testing.T) {
	store := notestore.New()
	require.NoError(t, store.Create(notestore.Note{
		Side: notestore.SideCenter, Type: notestore.TypeHold,
		Time: 900, LastTime: 5000, ID: "LONGHOLD1", SubID: "LONGSUB01",
	}))

	engine := New(store, defaultConfig())
	engine.SetRange(1000, 1)
	require.NoError(t, engine.Recalculate())

	seen := map[string]int{}
	for _, e := range engine.ActiveNotes() {
		seen[e.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s appeared more than once", id)
	}
}
