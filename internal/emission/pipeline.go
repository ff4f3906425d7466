// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package emission

import (
	"context"
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/notecore/chartcore/internal/activation"
	"github.com/notecore/chartcore/internal/bitio"
	"github.com/notecore/chartcore/internal/coreerr"
	"github.com/notecore/chartcore/internal/executor"
	"github.com/notecore/chartcore/internal/notestore"
	"github.com/notecore/chartcore/internal/spritecatalog"
)

var tracer = otel.Tracer("github.com/notecore/chartcore/internal/emission")

var (
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chartcore_emission_render_seconds",
		Help:    "Render() wall time per pass.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pass"})

	renderBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chartcore_emission_bytes_written_total",
		Help: "Vertex bytes written by Render, labelled by pass.",
	}, []string{"pass"})
)

// slackBytes is the fixed overrun margin vertex_buffer_bound() adds on top
// of the per-note accounting, covering rounding and edge padding.
const slackBytes = 1024 * spritecatalog.BytesPerQuad

// SpriteNames maps the pipeline's fixed set of draw roles to names looked
// up in the sprite catalog.
type SpriteNames struct {
	Tap      string
	Chain    string
	HoldBar  string
	HoldEdge string
	HoldBG   string
}

// ActiveLists is the Activation Engine's per-frame output, consumed
// directly by Render.
type ActiveLists struct {
	ActiveNotes  []activation.Entry
	ActiveHolds  []activation.Entry
	LastingHolds []activation.Entry
}

// Pipeline serializes a frame's active lists into packed vertex bytes
// using a sprite catalog and the store the lists' ids were drawn from.
type Pipeline struct {
	catalog   *spritecatalog.Catalog
	store     *notestore.Store
	geom      Geometry
	sprites   SpriteNames
	threshold int // note count above which pass 2 fans out across workers

	lastBound atomic.Int64
}

// NewPipeline returns a Pipeline reading sprite descriptors from catalog
// and note records from store. threshold is the active-note count above
// which pass 2 partitions work across the shared executor.
func NewPipeline(catalog *spritecatalog.Catalog, store *notestore.Store, geom Geometry, sprites SpriteNames, threshold int) *Pipeline {
	return &Pipeline{catalog: catalog, store: store, geom: geom, sprites: sprites, threshold: threshold}
}

// VertexBufferBound computes the per-buffer maximum byte count the
// pipeline guarantees never to exceed across passes 0, 1, and 2 combined,
// for the given list sizes.
func (p *Pipeline) VertexBufferBound(lists ActiveLists) (int, error) {
	holdBG, err := p.catalog.Get(p.sprites.HoldBG)
	if err != nil {
		return 0, err
	}
	holdBar, err := p.catalog.Get(p.sprites.HoldBar)
	if err != nil {
		return 0, err
	}
	holdEdge, err := p.catalog.Get(p.sprites.HoldEdge)
	if err != nil {
		return 0, err
	}
	tap, err := p.catalog.Get(p.sprites.Tap)
	if err != nil {
		return 0, err
	}
	chain, err := p.catalog.Get(p.sprites.Chain)
	if err != nil {
		return 0, err
	}

	maxTapChain := maxInt(tap.MaxBytes(tap.Size[1]), chain.MaxBytes(chain.Size[1]))
	plainNotes := len(lists.ActiveNotes) - len(lists.ActiveHolds)
	if plainNotes < 0 {
		plainNotes = 0
	}

	bytes := len(lists.LastingHolds)*holdBG.MaxBytes(holdBG.Size[1]) +
		len(lists.ActiveHolds)*holdBar.MaxBytes(holdBar.Size[1]) +
		len(lists.ActiveHolds)*holdEdge.MaxBytes(holdEdge.Size[1]) +
		plainNotes*maxTapChain +
		slackBytes
	p.lastBound.Store(int64(bytes))
	return bytes, nil
}

// LastVertexBufferBound returns the most recent bound computed by
// VertexBufferBound, or 0 if it has never been called.
func (p *Pipeline) LastVertexBufferBound() int64 {
	return p.lastBound.Load()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Render writes pass's quads into buf and returns the number of bytes
// written. pass must be 0 (lasting-hold backgrounds), 1 (hold bar
// interiors), or 2 (hold edges plus tap/chain sprites).
func (p *Pipeline) Render(ctx context.Context, buf []byte, pass int, t, v float64, lists ActiveLists) (int, error) {
	var entries []activation.Entry
	switch pass {
	case 0:
		entries = lists.LastingHolds
	case 1:
		entries = lists.ActiveHolds
	case 2:
		entries = lists.ActiveNotes
	default:
		return 0, coreerr.ErrInvalid
	}

	_, span := tracer.Start(ctx, "chartcore.emission.render")
	span.SetAttributes(
		attribute.Int("pass", pass),
		attribute.Int("note_count", len(entries)),
	)
	defer span.End()

	passLabel := strconv.Itoa(pass)
	start := time.Now()
	var n int
	var err error
	switch pass {
	case 0:
		n, err = p.renderPass0(buf, t, v, entries)
	case 1:
		n, err = p.renderPass1(buf, t, v, entries)
	default:
		n, err = p.renderPass2(buf, t, v, entries)
	}
	renderDuration.WithLabelValues(passLabel).Observe(time.Since(start).Seconds())
	renderBytes.WithLabelValues(passLabel).Add(float64(n))
	return n, err
}

// holdColor tints white by lightness, matching the background sprite's
// reduced-brightness tint.
func holdColor(lightness float64) [4]byte {
	v := byte(clamp(lightness, 0, 1) * 255)
	return [4]byte{v, v, v, 255}
}

var white = [4]byte{255, 255, 255, 255}

// holdSpan computes the on-screen rectangle a hold occupies between its
// start and end time, clipped to the judge line and clamped by clampFn,
// which barRect and edgeRect specialize with their own clamp rule.
func (p *Pipeline) holdSpan(n notestore.Note, t, v, tileH float64, clampFn func(rawLength, screenDim, tileH float64) float64) (x, y, w, h float64) {
	scale := 300.0
	if n.Side != notestore.SideCenter {
		scale = 150.0
	}
	width := n.Width * scale

	startOff := p.geom.TimeToVertical(n.Time, t, v, n.Side)
	endOff := p.geom.TimeToVertical(n.Time+n.LastTime, t, v, n.Side)
	lo, hi := startOff, endOff
	if lo > hi {
		lo, hi = hi, lo
	}

	screenDim := p.geom.BaseResH
	if n.Side != notestore.SideCenter {
		screenDim = p.geom.BaseResW
	}
	length := clampFn(hi-lo, screenDim, tileH)
	var top float64
	if n.Side == notestore.SideLeft {
		// The left judge line sits at small x, so lo is the judge-line-ward end.
		top = p.geom.ClipToJudgeLine(lo, n.Side)
	} else {
		top = p.geom.ClipToJudgeLine(hi, n.Side) - length
	}

	lane := p.geom.PosToHorizontal(n.Position, n.Side)

	if n.Side == notestore.SideCenter {
		return lane - width/2, top, width, length
	}
	return top, lane - width/2, length, width
}

// barRect computes the on-screen rectangle a hold's bar or background
// occupies between its start and end time, clamped and clipped per the
// hold geometry rules.
func (p *Pipeline) barRect(n notestore.Note, t, v float64, tileH float64) (x, y, w, h float64) {
	return p.holdSpan(n, t, v, tileH, ClampBarLength)
}

// edgeRect computes the on-screen rectangle a hold's edge sprite stretches
// across, using the same start/end span as barRect but capped by
// ClampEdgeLength rather than ClampBarLength.
func (p *Pipeline) edgeRect(n notestore.Note, t, v float64, tileH float64) (x, y, w, h float64) {
	return p.holdSpan(n, t, v, tileH, ClampEdgeLength)
}

func (p *Pipeline) renderPass0(buf []byte, t, v float64, entries []activation.Entry) (int, error) {
	sink := bitio.NewSink(buf)
	sprite, err := p.catalog.Get(p.sprites.HoldBG)
	if err != nil {
		return 0, err
	}
	color := holdColor(0.3)
	for _, entry := range entries {
		n, err := p.store.Get(entry.ID)
		if err != nil {
			continue
		}
		x, y, w, h := p.barRect(n, t, v, sprite.Size[1])
		for _, q := range ExpandQuads(sprite, x, y, w, h, sprite.Size[1]) {
			if err := WriteQuad(sink, q, color); err != nil {
				return sink.Pos(), err
			}
		}
	}
	return sink.Pos(), nil
}

func (p *Pipeline) renderPass1(buf []byte, t, v float64, entries []activation.Entry) (int, error) {
	sink := bitio.NewSink(buf)
	sprite, err := p.catalog.Get(p.sprites.HoldBar)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		n, err := p.store.Get(entry.ID)
		if err != nil {
			continue
		}
		x, y, w, h := p.barRect(n, t, v, sprite.Size[1])
		for _, q := range ExpandQuads(sprite, x, y, w, h, sprite.Size[1]) {
			if err := WriteQuad(sink, q, white); err != nil {
				return sink.Pos(), err
			}
		}
	}
	return sink.Pos(), nil
}

func (p *Pipeline) renderPass2(buf []byte, t, v float64, entries []activation.Entry) (int, error) {
	if len(entries) > p.threshold {
		if n, ok := p.parallelPass2(buf, t, v, entries); ok {
			return n, nil
		}
	}
	sink := bitio.NewSink(buf)
	for _, entry := range entries {
		if err := p.writeNoteQuad(sink, entry, t, v); err != nil {
			return sink.Pos(), err
		}
	}
	return sink.Pos(), nil
}

// parallelPass2 partitions entries into contiguous blocks, renders each
// block into its own buffer concurrently, then concatenates the results
// into buf in ascending block order. It returns ok=false if the pool has
// fewer than two workers, in which case the caller falls back to the
// serial path.
func (p *Pipeline) parallelPass2(buf []byte, t, v float64, entries []activation.Entry) (int, bool) {
	pool := executor.Get()
	workers := pool.Workers()
	if workers < 2 {
		return 0, false
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	blockSize := int(math.Ceil(float64(len(entries)) / float64(workers)))
	blocks := make([][]activation.Entry, 0, workers)
	for start := 0; start < len(entries); start += blockSize {
		end := start + blockSize
		if end > len(entries) {
			end = len(entries)
		}
		blocks = append(blocks, entries[start:end])
	}

	itemBound := p.maxBytesPerNote()
	results := make([][]byte, len(blocks))
	pool.ParallelFor(len(blocks), func(i int) {
		sub := make([]byte, len(blocks[i])*itemBound)
		sink := bitio.NewSink(sub)
		for _, entry := range blocks[i] {
			_ = p.writeNoteQuad(sink, entry, t, v)
		}
		results[i] = sink.Bytes()
	})

	n := 0
	for _, r := range results {
		if n+len(r) > len(buf) {
			return n, true
		}
		n += copy(buf[n:], r)
	}
	return n, true
}

func (p *Pipeline) maxBytesPerNote() int {
	tap, err1 := p.catalog.Get(p.sprites.Tap)
	chain, err2 := p.catalog.Get(p.sprites.Chain)
	edge, err3 := p.catalog.Get(p.sprites.HoldEdge)
	if err1 != nil || err2 != nil || err3 != nil {
		return spritecatalog.BytesPerQuad
	}
	return maxInt(maxInt(tap.MaxBytes(tap.Size[1]), chain.MaxBytes(chain.Size[1])), edge.MaxBytes(edge.Size[1]))
}

func (p *Pipeline) writeNoteQuad(sink *bitio.Sink, entry activation.Entry, t, v float64) error {
	n, err := p.store.Get(entry.ID)
	if err != nil {
		return nil
	}

	var spriteName string
	switch n.Type {
	case notestore.TypeHold:
		spriteName = p.sprites.HoldEdge
	case notestore.TypeChain:
		spriteName = p.sprites.Chain
	default:
		spriteName = p.sprites.Tap
	}
	sprite, err := p.catalog.Get(spriteName)
	if err != nil {
		return nil
	}

	if n.Type == notestore.TypeHold {
		return p.writeHoldEdgeQuad(sink, sprite, n, t, v)
	}

	x, y := p.geom.ScreenPos(n.Position, n.Time, t, v, n.Side)
	w, h := sprite.Size[0], sprite.Size[1]
	rotation := p.geom.Rotation(n.Side)
	alpha := p.geom.Alpha(x, n.Side)
	color := [4]byte{255, 255, 255, byte(clamp(alpha, 0, 1) * 255)}

	for _, q := range ExpandQuads(sprite, x-w/2, y-h/2, w, h, sprite.Size[1]) {
		q = rotateQuad(q, x, y, rotation)
		if err := WriteQuad(sink, q, color); err != nil {
			return err
		}
	}
	return nil
}

// writeHoldEdgeQuad draws a hold's edge as a bar stretched across its
// clamped start-to-end span, rather than a fixed-size cap sprite, matching
// the length the edge's byte accounting in VertexBufferBound assumes.
func (p *Pipeline) writeHoldEdgeQuad(sink *bitio.Sink, sprite spritecatalog.Sprite, n notestore.Note, t, v float64) error {
	x, y, w, h := p.edgeRect(n, t, v, sprite.Size[1])
	cx, cy := x+w/2, y+h/2
	rotation := p.geom.Rotation(n.Side)
	alphaX := p.geom.TimeToVertical(n.Time+n.LastTime, t, v, n.Side)
	alpha := p.geom.Alpha(alphaX, n.Side)
	color := [4]byte{255, 255, 255, byte(clamp(alpha, 0, 1) * 255)}

	for _, q := range ExpandQuads(sprite, x, y, w, h, sprite.Size[1]) {
		q = rotateQuad(q, cx, cy, rotation)
		if err := WriteQuad(sink, q, color); err != nil {
			return err
		}
	}
	return nil
}

// rotateQuad rotates a quad's corner positions by degrees about (cx, cy),
// leaving UV coordinates untouched.
func rotateQuad(q Quad, cx, cy, degrees float64) Quad {
	if degrees == 0 {
		return q
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	rotate := func(p PosUV) PosUV {
		dx, dy := float64(p.X)-cx, float64(p.Y)-cy
		p.X = float32(cx + dx*cos - dy*sin)
		p.Y = float32(cy + dx*sin + dy*cos)
		return p
	}
	return Quad{P0: rotate(q.P0), P1: rotate(q.P1), P2: rotate(q.P2), P3: rotate(q.P3)}
}
