// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package timingstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notecore/chartcore/internal/coreerr"
)

func TestStore_SortedOrdering(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 500, BeatLength: 500, Meter: 4})
	s.Add(TimingPoint{Time: 0, BeatLength: 500, Meter: 4})
	s.Add(TimingPoint{Time: 250, BeatLength: 500, Meter: 4})

	view := s.SortedView()
	require.Len(t, view, 3)
	assert.Equal(t, []float64{0, 250, 500}, []float64{view[0].Time, view[1].Time, view[2].Time})
}

func TestStore_HasAtWithinEpsilon(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 1000, BeatLength: 500, Meter: 4})
	assert.True(t, s.HasAt(1000))
	assert.True(t, s.HasAt(1000.5))
	assert.False(t, s.HasAt(1005))
}

func TestStore_ChangeAtAndDeleteAt(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 1000, BeatLength: 500, Meter: 4})

	require.NoError(t, s.ChangeAt(1000, TimingPoint{Time: 1000, BeatLength: 250, Meter: 3}))
	p, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, 250.0, p.BeatLength)

	require.NoError(t, s.DeleteAt(1000))
	assert.Equal(t, 0, s.Size())

	err = s.DeleteAt(1000)
	assert.ErrorIs(t, err, coreerr.ErrNotFound)
}

func TestStore_ShiftAllPreservesOrder(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 0, BeatLength: 500, Meter: 4})
	s.Add(TimingPoint{Time: 1000, BeatLength: 500, Meter: 4})
	s.ShiftAll(250)

	view := s.SortedView()
	assert.Equal(t, 250.0, view[0].Time)
	assert.Equal(t, 1250.0, view[1].Time)
}

func TestTimingPoint_BPM(t *testing.T) {
	p := TimingPoint{BeatLength: 500}
	assert.Equal(t, 120.0, p.BPM())
}

func TestStore_BPMAt(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 0, BeatLength: 500, Meter: 4})
	s.Add(TimingPoint{Time: 1000, BeatLength: 250, Meter: 4})

	bpm, err := s.BPMAt(500)
	require.NoError(t, err)
	assert.Equal(t, 120.0, bpm)

	bpm, err = s.BPMAt(1500)
	require.NoError(t, err)
	assert.Equal(t, 240.0, bpm)

	_, err = s.BPMAt(-10)
	assert.ErrorIs(t, err, coreerr.ErrNotFound)
}

func TestStore_BarAt(t *testing.T) {
	s := New()
	s.Add(TimingPoint{Time: 0, BeatLength: 500, Meter: 4})
	// one bar = 2000ms; at t=2000 exactly one bar has elapsed.
	bars, err := s.BarAt(2000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bars, 1e-9)
}
