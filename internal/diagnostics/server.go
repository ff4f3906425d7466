// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package diagnostics exposes a read-only HTTP surface over a running
// core: health, Prometheus metrics, and a JSON snapshot of store counts.
// It never mutates Note Store or Timing Store state.
package diagnostics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notecore/chartcore/internal/notestore"
	"github.com/notecore/chartcore/internal/timingstore"
)

// Snapshot is the read-only payload served at /debug/snapshot.
type Snapshot struct {
	NoteCount             int   `json:"note_count"`
	HoldOnlyCount         int   `json:"hold_only_count"`
	TimingPointCount      int   `json:"timing_point_count"`
	NoteLastModified      int64 `json:"note_last_modified"`
	TimingLastModified    int64 `json:"timing_last_modified"`
	LastVertexBufferBound int64 `json:"last_vertex_buffer_bound"`
}

// VertexBufferBoundSource reports the most recently computed
// vertex_buffer_bound() result, backed in practice by an
// *emission.Pipeline. A nil source reports a bound of 0.
type VertexBufferBoundSource interface {
	LastVertexBufferBound() int64
}

// Server is a read-only diagnostics surface over a Note Store and Timing
// Store pair. The zero value is not ready for use; call New.
type Server struct {
	notes  *notestore.Store
	timing *timingstore.Store
	bound  VertexBufferBoundSource
}

// New returns a Server reading from notes, timing, and bound. Neither
// store is ever mutated by the returned handler. bound may be nil, in
// which case the snapshot reports a last_vertex_buffer_bound of 0.
func New(notes *notestore.Store, timing *timingstore.Store, bound VertexBufferBoundSource) *Server {
	return &Server{notes: notes, timing: timing, bound: bound}
}

// Handler builds the chi router serving /healthz, /metrics, and
// /debug/snapshot, with a sliding-window rate limit on the snapshot route
// to keep a misbehaving poller from contending the store's read lock.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.With(httprate.LimitByIP(5, time.Second)).Get("/debug/snapshot", s.handleSnapshot)

	return r
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var bound int64
	if s.bound != nil {
		bound = s.bound.LastVertexBufferBound()
	}

	snap := Snapshot{
		NoteCount:             s.notes.Count(),
		HoldOnlyCount:         s.notes.HoldOnlyCount(),
		TimingPointCount:      s.timing.Size(),
		NoteLastModified:      s.notes.LastModified(),
		TimingLastModified:    s.timing.LastModified(),
		LastVertexBufferBound: bound,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
