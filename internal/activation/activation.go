// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package activation computes, for a given chart time and scroll speed,
// the three ordered note lists the Emission Pipeline draws each frame.
package activation

import (
	"math"
	"sort"
	"sync"

	"github.com/notecore/chartcore/internal/notestore"
)

// Entry is a deduplicated (time, id) pair in one of the engine's output
// lists.
type Entry struct {
	Time float64
	ID   string
}

// Config carries the layout constants the viewport geometry is derived
// from.
type Config struct {
	BaseResW        float64
	BaseResH        float64
	JudgeLineBottom float64
	JudgeLineSide   float64
	ActivationAhead float64
}

// Engine tracks the current viewport and the three active-note lists it
// produces for that viewport.
type Engine struct {
	mu    sync.Mutex
	store *notestore.Store
	cfg   Config

	t, v float64

	activeNotes  []Entry
	activeHolds  []Entry
	lastingHolds []Entry
}

// New returns an Engine reading from store under cfg.
func New(store *notestore.Store, cfg Config) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// SetRange configures the current chart time t and scroll speed v
// (pixels/ms) for the next Recalculate call.
func (e *Engine) SetRange(t, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.t, e.v = t, v
}

func (e *Engine) wideWindow() (lo, hi float64) {
	bound := math.Max(e.cfg.BaseResH-e.cfg.JudgeLineBottom, e.cfg.BaseResW/2-e.cfg.JudgeLineSide)
	return e.t, e.t + (e.cfg.ActivationAhead+bound)/e.v
}

func (e *Engine) narrowWindow() (lo, hi float64) {
	bound := math.Min(e.cfg.BaseResH-e.cfg.JudgeLineBottom, e.cfg.BaseResW/2-e.cfg.JudgeLineSide)
	return e.t, e.t + bound/e.v
}

func (e *Engine) sideBound() float64 {
	return e.t + (e.cfg.BaseResW/2-e.cfg.JudgeLineSide)/e.v
}

// Recalculate rebuilds the three active-note lists for the viewport set
// by the most recent SetRange. It sorts the underlying store first.
func (e *Engine) Recalculate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Sort()

	wideLo, wideHi := e.wideWindow()
	narrowLo, narrowHi := e.narrowWindow()
	sideBound := e.sideBound()

	lo, hi, err := e.store.RangeByTime(wideLo, wideHi)
	if err != nil {
		return err
	}

	var notes, holds, lasting []Entry

	for i := lo; i < hi; i++ {
		n, err := e.store.At(i)
		if err != nil {
			return err
		}
		if n.Side > 0 && n.Time > sideBound {
			continue
		}
		switch n.Type {
		case notestore.TypeTap, notestore.TypeChain, notestore.TypeHold:
			notes = append(notes, Entry{n.Time, n.ID})
			if n.Type == notestore.TypeHold {
				holds = append(holds, Entry{n.Time, n.ID})
			}
		case notestore.TypeSub:
			notes = append(notes, Entry{n.BeginTime, n.SubID})
			holds = append(holds, Entry{n.BeginTime, n.SubID})
			if n.BeginTime < e.t {
				lasting = append(lasting, Entry{n.BeginTime, n.SubID})
			}
		}
	}

	span := narrowHi - narrowLo
	for i := 0; i < e.store.HoldOnlyCount(); i++ {
		n, err := e.store.HoldOnlyAt(i)
		if err != nil {
			return err
		}
		if n.LastTime < span {
			break
		}
		if n.Time <= narrowLo && n.Time+n.LastTime > narrowHi {
			entry := Entry{n.Time, n.ID}
			notes = append(notes, entry)
			holds = append(holds, entry)
			lasting = append(lasting, entry)
		}
	}

	e.activeNotes = dedupSortByTime(notes)
	e.activeHolds = dedupSortByTime(holds)
	e.lastingHolds = dedupSortByTime(lasting)
	return nil
}

// ActiveNotes returns the most recently computed active-notes list.
func (e *Engine) ActiveNotes() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEntries(e.activeNotes)
}

// ActiveHolds returns the most recently computed active-holds list.
func (e *Engine) ActiveHolds() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEntries(e.activeHolds)
}

// LastingHolds returns the most recently computed lasting-holds list.
func (e *Engine) LastingHolds() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEntries(e.lastingHolds)
}

func cloneEntries(src []Entry) []Entry {
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

func dedupSortByTime(in []Entry) []Entry {
	seen := make(map[string]struct{}, len(in))
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
