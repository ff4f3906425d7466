// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package notestore

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/notecore/chartcore/internal/coreerr"
	"github.com/notecore/chartcore/internal/executor"
	"github.com/notecore/chartcore/internal/noteid"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chartcore_notestore_mutations_total",
		Help: "Count of Note Store mutating operations, labelled by operation.",
	}, []string{"op"})

	storeCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chartcore_notestore_count",
		Help: "Current live note count per store instance.",
	}, []string{"store"})
)

// entry is the by-id map's value: a slot id plus the slot's current
// position in each ordered view, or -1 if the slot does not participate
// in that view.
type entry struct {
	slot       int
	primaryIdx int
	holdIdx    int
}

// Store is the pooled, indexed collection of note records described by the
// data model. The zero value is not ready for use; call New.
type Store struct {
	mu sync.RWMutex

	slots     []*Note
	freeSlots []int

	byID map[string]*entry

	primary  []int // slot ids, ordered by Note.Time ascending once clean
	holdOnly []int // slot ids of Type==TypeHold, ordered by Note.LastTime descending once clean

	dirty        bool
	lastModified int64

	name string // label used for metrics; defaults to "default"
}

// New returns an empty, ready-to-use Store.
func New() *Store {
	return &Store{
		byID: make(map[string]*entry),
		name: "default",
	}
}

// Named sets the label this store reports under for metrics. It must be
// called before any mutating operation to take effect in exported series.
func (s *Store) Named(name string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	return s
}

// LastModified returns the monotonically increasing modification stamp,
// bumped on every mutation so external caches can invalidate cheaply.
func (s *Store) LastModified() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastModified
}

func (s *Store) touch() {
	s.lastModified = time.Now().UnixNano()
}

func (s *Store) observe(op, id string) {
	mutationsTotal.WithLabelValues(op).Inc()
	storeCount.WithLabelValues(s.name).Set(float64(len(s.byID)))
	log.Debug().
		Str("event", "notestore."+op).
		Str("store", s.name).
		Str("id", id).
		Bool("dirty", s.dirty).
		Int("count", len(s.byID)).
		Msg("note store mutation")
}

// Exists reports whether id is currently stored. Never fails.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

func (s *Store) existsLocked(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// allocSlot returns a fresh or reused slot index holding note.
func (s *Store) allocSlot(note *Note) int {
	if n := len(s.freeSlots); n > 0 {
		slot := s.freeSlots[n-1]
		s.freeSlots = s.freeSlots[:n-1]
		s.slots[slot] = note
		return slot
	}
	s.slots = append(s.slots, note)
	return len(s.slots) - 1
}

// insertLocked appends a newly allocated record to the relevant views and
// the by-id map. Callers hold the write lock.
func (s *Store) insertLocked(n Note) {
	note := n
	slot := s.allocSlot(&note)
	e := &entry{slot: slot, primaryIdx: -1, holdIdx: -1}
	s.byID[note.ID] = e
	s.primary = append(s.primary, slot)
	if note.Type == TypeHold {
		s.holdOnly = append(s.holdOnly, slot)
	}
	s.dirty = true
}

// Create inserts note iff its id is unused. If note is a hold (type=2), a
// paired sub note (type=3) is synthesized and inserted alongside it: the
// sub's time is the hold's end (time+last_time), its begin_time is the
// hold's start, and it shares side/width/position. If note.SubID is empty
// a fresh id is generated for it.
func (s *Store) Create(n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existsLocked(n.ID) {
		return coreerr.ErrAlreadyExists
	}

	if n.Type != TypeHold {
		s.insertLocked(n)
		s.touch()
		s.observe("create", n.ID)
		return nil
	}

	subID := n.SubID
	if subID == "" {
		subID = noteid.Generate(s.existsLocked)
	}
	if s.existsLocked(subID) {
		return coreerr.ErrAlreadyExists
	}
	n.SubID = subID

	sub := Note{
		Side:      n.Side,
		Type:      TypeSub,
		Time:      n.Time + n.LastTime,
		Width:     n.Width,
		Position:  n.Position,
		LastTime:  0,
		BeginTime: n.Time,
		ID:        subID,
		SubID:     n.ID,
	}

	s.insertLocked(n)
	s.insertLocked(sub)
	s.touch()
	s.observe("create", n.ID)
	return nil
}

// Get returns a copy of the stored note.
func (s *Store) Get(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return Note{}, coreerr.ErrNotFound
	}
	return *s.slots[e.slot], nil
}

// Set overwrites the stored note's fields in place. If Time differs from
// the previously stored value the store is marked out-of-order.
func (s *Store) Set(id string, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return coreerr.ErrNotFound
	}
	old := s.slots[e.slot]
	n.ID = id
	timeChanged := old.Time != n.Time
	*s.slots[e.slot] = n
	if timeChanged {
		s.dirty = true
	}
	s.touch()
	s.observe("set", id)
	return nil
}

// MutateBitwise decodes buf as a note record and applies it via Set,
// preserving id regardless of what the decoded bytes carried.
func (s *Store) MutateBitwise(id string, buf []byte) error {
	n, err := Decode(buf)
	if err != nil {
		return coreerr.ErrDecodeError
	}
	return s.Set(id, n)
}

// Delete removes the record and marks the store out-of-order. Deleting a
// hold cascades to its paired sub note.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id string) error {
	e, ok := s.byID[id]
	if !ok {
		return coreerr.ErrNotFound
	}
	note := s.slots[e.slot]
	subID := note.SubID
	isHold := note.Type == TypeHold

	// A record inserted since the last sort has no recorded position; scan.
	if e.primaryIdx >= 0 && e.primaryIdx < len(s.primary) {
		s.primary[e.primaryIdx] = -1
	} else {
		tombstoneSlot(s.primary, e.slot)
	}
	if e.holdIdx >= 0 && e.holdIdx < len(s.holdOnly) {
		s.holdOnly[e.holdIdx] = -1
	} else if isHold {
		tombstoneSlot(s.holdOnly, e.slot)
	}
	s.slots[e.slot] = nil
	s.freeSlots = append(s.freeSlots, e.slot)
	delete(s.byID, id)
	s.dirty = true
	s.touch()
	s.observe("delete", id)

	if isHold && subID != "" {
		if _, ok := s.byID[subID]; ok {
			return s.deleteLocked(subID)
		}
	}
	return nil
}

// Clear drops all notes and releases pooled memory.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = nil
	s.freeSlots = nil
	s.byID = make(map[string]*entry)
	s.primary = nil
	s.holdOnly = nil
	s.dirty = false
	s.touch()
	s.observe("clear", "")
}

// Count returns the current non-sub plus sub note count.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// HoldOnlyCount returns the number of entries in the hold-only view
// (ordered descending by LastTime once clean).
func (s *Store) HoldOnlyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holdOnly)
}

// HoldOnlyAt returns the hold note at position i in the hold-only view.
func (s *Store) HoldOnlyAt(i int) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dirty {
		return Note{}, coreerr.ErrOutOfOrder
	}
	if i < 0 || i >= len(s.holdOnly) {
		return Note{}, coreerr.ErrOutOfRange
	}
	return *s.slots[s.holdOnly[i]], nil
}

// IndexOf returns id's position in the sorted-by-time view.
func (s *Store) IndexOf(id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dirty {
		return 0, coreerr.ErrOutOfOrder
	}
	e, ok := s.byID[id]
	if !ok {
		return 0, coreerr.ErrNotFound
	}
	return e.primaryIdx, nil
}

// At returns the note at position i in the sorted-by-time view.
func (s *Store) At(i int) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dirty {
		return Note{}, coreerr.ErrOutOfOrder
	}
	if i < 0 || i >= len(s.primary) {
		return Note{}, coreerr.ErrOutOfRange
	}
	return *s.slots[s.primary[i]], nil
}

// RangeByTime returns the half-open index window [lo, hi) of the
// sorted-by-time view covering notes with lo <= time < hi.
func (s *Store) RangeByTime(lo, hi float64) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dirty {
		return 0, 0, coreerr.ErrOutOfOrder
	}
	low := s.lowerBoundLocked(lo)
	high := s.lowerBoundLocked(hi)
	return low, high, nil
}

// lowerBoundLocked returns the first index in primary whose note's Time is
// >= t. Callers hold at least the read lock and require a clean store.
func (s *Store) lowerBoundLocked(t float64) int {
	lo, hi := 0, len(s.primary)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.slots[s.primary[mid]].Time < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Sort re-establishes both ordered views. It is a no-op if the store is
// already clean.
func (s *Store) Sort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
}

func (s *Store) sortLocked() {
	if !s.dirty {
		return
	}

	stableSortSlots(s.primary, func(a, b int) bool {
		if a < 0 {
			return false
		}
		if b < 0 {
			return true
		}
		return s.slots[a].Time < s.slots[b].Time
	})
	s.primary = trimTrailingTombstones(s.primary)

	stableSortSlots(s.holdOnly, func(a, b int) bool {
		if a < 0 {
			return false
		}
		if b < 0 {
			return true
		}
		return s.slots[a].LastTime > s.slots[b].LastTime
	})
	s.holdOnly = trimTrailingTombstones(s.holdOnly)

	for idx, slot := range s.primary {
		s.byID[s.slots[slot].ID].primaryIdx = idx
	}
	for idx, slot := range s.holdOnly {
		s.byID[s.slots[slot].ID].holdIdx = idx
	}

	s.dirty = false
}

func tombstoneSlot(ids []int, slot int) {
	for i, id := range ids {
		if id == slot {
			ids[i] = -1
			return
		}
	}
}

func trimTrailingTombstones(ids []int) []int {
	end := len(ids)
	for end > 0 && ids[end-1] == -1 {
		end--
	}
	return ids[:end]
}

// Snapshot returns an owned copy of every live note, in sorted-by-time
// order if the store is clean, or by-id map iteration order otherwise. If
// excludeSub is true, sub notes are omitted.
func (s *Store) Snapshot(excludeSub bool) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, 0, len(s.byID))
	if !s.dirty {
		for _, slot := range s.primary {
			n := s.slots[slot]
			if excludeSub && n.Type == TypeSub {
				continue
			}
			out = append(out, *n)
		}
		return out
	}
	for _, e := range s.byID {
		n := s.slots[e.slot]
		if excludeSub && n.Type == TypeSub {
			continue
		}
		out = append(out, *n)
	}
	return out
}

// ForEach invokes visitor once per live note, under the store's write
// lock. visitor must not re-enter the store.
func (s *Store) ForEach(visitor func(Note)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.byID {
		visitor(*s.slots[e.slot])
	}
}

// ForEachParallel clones every live note under the read lock, releases
// the lock, then fans visitor out across the shared executor. Notes
// created after the clone is taken are not visited; visitor must not
// re-enter the store.
func (s *Store) ForEachParallel(visitor func(Note)) {
	s.mu.RLock()
	clones := make([]Note, 0, len(s.byID))
	for _, e := range s.byID {
		clones = append(clones, *s.slots[e.slot])
	}
	s.mu.RUnlock()

	executor.Get().ParallelFor(len(clones), func(i int) {
		visitor(clones[i])
	})
}
