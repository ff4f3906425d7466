// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package emission

import (
	"math"

	"github.com/notecore/chartcore/internal/spritecatalog"
)

// rect is an axis-aligned screen rectangle, top-left origin.
type rect struct {
	X, Y, W, H float64
}

func quadFromRects(pos rect, uv rect) Quad {
	return Quad{
		P0: PosUV{X: float32(pos.X), Y: float32(pos.Y), U: float32(uv.X), V: float32(uv.Y)},
		P1: PosUV{X: float32(pos.X + pos.W), Y: float32(pos.Y), U: float32(uv.X + uv.W), V: float32(uv.Y)},
		P2: PosUV{X: float32(pos.X), Y: float32(pos.Y + pos.H), U: float32(uv.X), V: float32(uv.Y + uv.H)},
		P3: PosUV{X: float32(pos.X + pos.W), Y: float32(pos.Y + pos.H), U: float32(uv.X + uv.W), V: float32(uv.Y + uv.H)},
	}
}

// ExpandQuads expands sprite into the quads its draw setting produces for
// a target screen rectangle (x, y, w, h). tileH is only consulted for
// DrawRepeatVertical. The long axis is assumed vertical, matching holds
// and segmented bars scrolling top-to-bottom.
func ExpandQuads(sprite spritecatalog.Sprite, x, y, w, h, tileH float64) []Quad {
	uv0, uv1 := sprite.UV0, sprite.UV1
	fullUV := rect{X: uv0[0], Y: uv0[1], W: uv1[0] - uv0[0], H: uv1[1] - uv0[1]}

	switch sprite.Draw.Kind {
	case spritecatalog.DrawNormal:
		return []Quad{quadFromRects(rect{x, y, w, h}, fullUV)}

	case spritecatalog.DrawSeg3:
		capTop := math.Min(sprite.Draw.Seg3[0], h/2)
		capBottom := math.Min(sprite.Draw.Seg3[1], h/2)
		return expandStrips(x, y, w, h, fullUV, []float64{capTop, h - capTop - capBottom, capBottom})

	case spritecatalog.DrawSeg5:
		cap0 := math.Min(sprite.Draw.Seg5[0], h/2)
		mid := sprite.Draw.Seg5[1]
		cap1 := math.Min(sprite.Draw.Seg5[2], h/2)
		stretch := (h - cap0 - cap1 - mid) / 2
		if stretch < 0 {
			stretch = 0
		}
		return expandStrips(x, y, w, h, fullUV, []float64{cap0, stretch, mid, stretch, cap1})

	case spritecatalog.DrawSlice9:
		return expandSlice9(sprite, x, y, w, h, fullUV)

	case spritecatalog.DrawRepeatVertical:
		return expandRepeatVertical(x, y, w, h, tileH, fullUV, sprite.MaxQuads(tileH))

	default:
		return nil
	}
}

// expandStrips stacks n horizontal strips of the given heights along the
// vertical axis, slicing the sprite's UV rectangle proportionally.
func expandStrips(x, y, w, h float64, uv rect, heights []float64) []Quad {
	total := 0.0
	for _, hh := range heights {
		total += hh
	}
	if total <= 0 {
		return nil
	}

	quads := make([]Quad, 0, len(heights))
	cursorY := y
	uvCursor := uv.Y
	for _, hh := range heights {
		if hh <= 0 {
			continue
		}
		uvH := uv.H * (hh / total)
		quads = append(quads, quadFromRects(
			rect{x, cursorY, w, hh},
			rect{uv.X, uvCursor, uv.W, uvH},
		))
		cursorY += hh
		uvCursor += uvH
	}
	return quads
}

// expandSlice9 emits the eight border quads of a 3x3 grid, omitting the
// centre cell.
func expandSlice9(sprite spritecatalog.Sprite, x, y, w, h float64, uv rect) []Quad {
	l, r, top, bot := sprite.Draw.Slice9[0], sprite.Draw.Slice9[1], sprite.Draw.Slice9[2], sprite.Draw.Slice9[3]
	if l+r > w {
		l, r = w/2, w/2
	}
	if top+bot > h {
		top, bot = h/2, h/2
	}
	midW, midH := w-l-r, h-top-bot

	colsX := []float64{x, x + l, x + l + midW}
	colsW := []float64{l, midW, r}
	rowsY := []float64{y, y + top, y + top + midH}
	rowsH := []float64{top, midH, bot}

	uvColsX := []float64{uv.X, uv.X + uv.W*(l/w), uv.X + uv.W*((l+midW)/w)}
	uvColsW := []float64{uv.W * (l / w), uv.W * (midW / w), uv.W * (r / w)}
	uvRowsY := []float64{uv.Y, uv.Y + uv.H*(top/h), uv.Y + uv.H*((top+midH)/h)}
	uvRowsH := []float64{uv.H * (top / h), uv.H * (midH / h), uv.H * (bot / h)}

	var quads []Quad
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if row == 1 && col == 1 {
				continue // centre cell omitted
			}
			quads = append(quads, quadFromRects(
				rect{colsX[col], rowsY[row], colsW[col], rowsH[row]},
				rect{uvColsX[col], uvRowsY[row], uvColsW[col], uvRowsH[row]},
			))
		}
	}
	return quads
}

// expandRepeatVertical stacks tileH-high tiles until h is covered or
// maxQuads tiles have been emitted, whichever comes first; length beyond
// maxQuads*tileH is not drawn. A final partial tile is truncated and its
// UV scaled to match.
func expandRepeatVertical(x, y, w, h, tileH float64, uv rect, maxQuads int) []Quad {
	if tileH <= 0 {
		return nil
	}
	var quads []Quad
	remaining := h
	cursorY := y
	for remaining > 0 && len(quads) < maxQuads {
		tile := math.Min(tileH, remaining)
		uvH := uv.H * (tile / tileH)
		quads = append(quads, quadFromRects(
			rect{x, cursorY, w, tile},
			rect{uv.X, uv.Y, uv.W, uvH},
		))
		cursorY += tile
		remaining -= tile
	}
	return quads
}
