// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package emission serializes the Activation Engine's active lists into a
// packed vertex byte stream using the Sprite Catalog's draw grammar.
package emission

import (
	"math"

	"github.com/notecore/chartcore/internal/notestore"
)

// Geometry carries the layout constants the coordinate transforms are
// parameterized by.
type Geometry struct {
	BaseResW        float64
	BaseResH        float64
	JudgeLineBottom float64
	JudgeLineSide   float64
}

// PosToHorizontal maps a lane position (lane centre = 2.5) to a screen
// x-coordinate. Centre-lane notes scale around screen centre at 300
// units per lane unit; left/right notes scale at 150.
func (g Geometry) PosToHorizontal(pos float64, side notestore.Side) float64 {
	scale := 300.0
	if side != notestore.SideCenter {
		scale = 150.0
	}
	return g.BaseResW/2 + (pos-2.5)*scale
}

// TimeToVertical maps a note's time, the current chart time t, and scroll
// speed v to the off-axis screen coordinate the note travels along before
// reaching its judge line. Centre notes fall top-to-bottom toward the
// bottom judge line; left/right notes approach their respective side
// judge line horizontally.
func (g Geometry) TimeToVertical(noteTime, t, v float64, side notestore.Side) float64 {
	remaining := noteTime - t
	switch side {
	case notestore.SideLeft:
		return g.JudgeLineSide + remaining*v
	case notestore.SideRight:
		return g.BaseResW - g.JudgeLineSide - remaining*v
	default:
		return g.BaseResH - g.JudgeLineBottom - remaining*v
	}
}

// Rotation returns the sprite rotation, in degrees, applied about the
// sprite centre for the given side.
func (g Geometry) Rotation(side notestore.Side) float64 {
	switch side {
	case notestore.SideLeft:
		return 270
	case notestore.SideRight:
		return 90
	default:
		return 0
	}
}

// Alpha attenuates left/right notes linearly with their horizontal
// distance from the screen centreline, clamped to [0.25, 1.0]. Centre
// notes are always fully opaque.
func (g Geometry) Alpha(screenX float64, side notestore.Side) float64 {
	if side == notestore.SideCenter {
		return 1.0
	}
	centerX := g.BaseResW / 2
	dist := math.Abs(screenX - centerX)
	frac := dist / (0.3 * g.BaseResW)
	return clamp(lerp(0.25, 1.0, frac), 0.25, 1.0)
}

// ScreenPos returns the two screen coordinates for n at chart time t and
// scroll speed v: the lane coordinate from PosToHorizontal and the
// scroll-progress coordinate from TimeToVertical, assigned to (x, y) for
// centre notes and (y, x) for left/right notes, since side notes scroll
// horizontally while their lane axis runs vertically.
func (g Geometry) ScreenPos(pos, noteTime, t, v float64, side notestore.Side) (x, y float64) {
	lane := g.PosToHorizontal(pos, side)
	scroll := g.TimeToVertical(noteTime, t, v, side)
	if side == notestore.SideCenter {
		return lane, scroll
	}
	return scroll, lane
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampBarLength shortens a hold bar by a whole multiple of tileH once it
// would exceed screenDim+2*tileH, keeping tiling seams aligned.
func ClampBarLength(rawLength, screenDim, tileH float64) float64 {
	maxLen := screenDim + 2*tileH
	if rawLength <= maxLen || tileH <= 0 {
		return rawLength
	}
	overflow := rawLength - maxLen
	tiles := math.Ceil(overflow / tileH)
	return rawLength - tiles*tileH
}

// ClampEdgeLength caps a hold edge at screenDim+3*tileH.
func ClampEdgeLength(rawLength, screenDim, tileH float64) float64 {
	maxLen := screenDim + 3*tileH
	if rawLength > maxLen {
		return maxLen
	}
	return rawLength
}

// ClipToJudgeLine clips the bottom endpoint of a bar so it never extends
// past the judge line for the given side.
func (g Geometry) ClipToJudgeLine(bottom float64, side notestore.Side) float64 {
	switch side {
	case notestore.SideLeft:
		if bottom < g.JudgeLineSide {
			return g.JudgeLineSide
		}
	case notestore.SideRight:
		limit := g.BaseResW - g.JudgeLineSide
		if bottom > limit {
			return limit
		}
	default:
		limit := g.BaseResH - g.JudgeLineBottom
		if bottom > limit {
			return limit
		}
	}
	return bottom
}
