// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package timingstore

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/notecore/chartcore/internal/coreerr"
)

// epsilonMs is the tolerance has_at uses when matching a candidate time,
// mirroring TIMING_POINT_EPSILON in the source this store is modelled on.
const epsilonMs = 1.0

// Store is the sorted sequence of timing points backing bar/time
// conversions. The zero value is not ready for use; call New.
type Store struct {
	mu sync.RWMutex

	points []TimingPoint
	dirty  bool

	lastModified int64
}

// New returns an empty, ready-to-use Store.
func New() *Store {
	return &Store{}
}

// LastModified returns the monotonically increasing modification stamp.
func (s *Store) LastModified() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastModified
}

func (s *Store) touch(op string) {
	s.lastModified = time.Now().UnixNano()
	log.Debug().Str("event", "timingstore."+op).Int("count", len(s.points)).Msg("timing store mutation")
}

// Clear drops every timing point.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
	s.dirty = false
	s.touch("clear")
}

// Add appends a single timing point.
func (s *Store) Add(p TimingPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, p)
	s.dirty = true
	s.touch("add")
}

// Append appends many timing points in one mutation.
func (s *Store) Append(points []TimingPoint) {
	if len(points) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, points...)
	s.dirty = true
	s.touch("append")
}

// Size returns the current number of timing points.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// sortLocked re-establishes ascending time order. Callers hold the write
// lock. A no-op when the store is already clean, matching the source's
// sort() guard.
func (s *Store) sortLocked() {
	if !s.dirty {
		return
	}
	sort.SliceStable(s.points, func(i, j int) bool { return s.points[i].Time < s.points[j].Time })
	s.dirty = false
}

// SortedView returns an owned, time-ordered copy of every timing point.
func (s *Store) SortedView() []TimingPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	out := make([]TimingPoint, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the timing point at position i in time order.
func (s *Store) At(i int) (TimingPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	if i < 0 || i >= len(s.points) {
		return TimingPoint{}, coreerr.ErrOutOfRange
	}
	return s.points[i], nil
}

// lowerBoundLocked returns the first index whose Time is >= t. Callers
// hold the write lock and have already sorted.
func (s *Store) lowerBoundLocked(t float64) int {
	return sort.Search(len(s.points), func(i int) bool { return s.points[i].Time >= t })
}

// HasAt reports whether a timing point exists within epsilonMs of time.
func (s *Store) HasAt(t float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	idx := s.lowerBoundLocked(t)
	if idx < len(s.points) && abs(s.points[idx].Time-t) <= epsilonMs {
		return true
	}
	if idx > 0 && abs(s.points[idx-1].Time-t) <= epsilonMs {
		return true
	}
	return false
}

// ChangeAt replaces the timing point whose Time exactly equals t with
// replacement.
func (s *Store) ChangeAt(t float64, replacement TimingPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	idx := s.lowerBoundLocked(t)
	if idx >= len(s.points) || s.points[idx].Time != t {
		return coreerr.ErrNotFound
	}
	s.points[idx] = replacement
	if replacement.Time != t {
		s.dirty = true
	}
	s.touch("change_at")
	return nil
}

// DeleteAt removes the timing point whose Time exactly equals t.
func (s *Store) DeleteAt(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	idx := s.lowerBoundLocked(t)
	if idx >= len(s.points) || s.points[idx].Time != t {
		return coreerr.ErrNotFound
	}
	s.points = append(s.points[:idx], s.points[idx+1:]...)
	s.touch("delete_at")
	return nil
}

// ShiftAll adds delta to every timing point's Time. Order is preserved
// since the shift is uniform.
func (s *Store) ShiftAll(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.points {
		s.points[i].Time += delta
	}
	s.touch("shift_all")
}

// BPMAt returns the tempo in effect at time t: the BPM of the last timing
// point whose Time is <= t.
func (s *Store) BPMAt(t float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	idx := s.lowerBoundLocked(t)
	if idx < len(s.points) && s.points[idx].Time == t {
		return s.points[idx].BPM(), nil
	}
	if idx == 0 {
		return 0, coreerr.ErrNotFound
	}
	return s.points[idx-1].BPM(), nil
}

// BarAt returns the accumulated musical bar count at time t, summing whole
// and fractional bars across every timing-point segment from the first
// point forward.
func (s *Store) BarAt(t float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
	if len(s.points) == 0 {
		return 0, coreerr.ErrNotFound
	}
	if t < s.points[0].Time {
		return 0, nil
	}

	var bars float64
	for i, p := range s.points {
		segEnd := t
		if i+1 < len(s.points) && s.points[i+1].Time < segEnd {
			segEnd = s.points[i+1].Time
		}
		if segEnd > p.Time {
			if dur := p.barDuration(); dur > 0 {
				bars += (segEnd - p.Time) / dur
			}
		}
		if i+1 >= len(s.points) || s.points[i+1].Time >= t {
			break
		}
	}
	return bars, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
