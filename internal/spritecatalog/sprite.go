// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package spritecatalog holds the immutable name-to-descriptor map the
// Emission Pipeline draws from, along with the pure UV geometry helpers
// every draw setting shares.
package spritecatalog

import "math"

// BytesPerQuad is the fixed wire size of one emitted quad: six vertices
// of 20 bytes each.
const BytesPerQuad = 120

// DrawKind selects the sprite's expansion grammar.
type DrawKind int

const (
	DrawNormal DrawKind = iota
	DrawSeg3
	DrawSeg5
	DrawSlice9
	DrawRepeatVertical
)

// DrawSetting is the tagged variant describing how a sprite expands to
// quads. Only the fields relevant to Kind are meaningful.
type DrawSetting struct {
	Kind DrawKind

	// Seg3 holds the left/right cap widths for DrawSeg3.
	Seg3 [2]float64
	// Seg5 holds the first cap, middle cap and last cap lengths for
	// DrawSeg5, in that order.
	Seg5 [3]float64
	// Slice9 holds left/right/top/bottom border widths for DrawSlice9.
	Slice9 [4]float64
}

// Sprite is an immutable descriptor of a region within a sprite sheet.
type Sprite struct {
	Name string

	Size [2]float64
	UV0  [2]float64
	UV1  [2]float64

	PaddingLR     float64
	PaddingTop    float64
	PaddingBottom float64

	Draw DrawSetting
}

func (s Sprite) uvSize() [2]float64 {
	return [2]float64{s.UV1[0] - s.UV0[0], s.UV1[1] - s.UV0[1]}
}

// PosToUV maps a pixel position within the sprite's local [0, Size] space
// to the sprite's actual UV rectangle.
func (s Sprite) PosToUV(pos [2]float64) [2]float64 {
	uvSize := s.uvSize()
	var local [2]float64
	if s.Size[0] != 0 {
		local[0] = pos[0] / s.Size[0]
	}
	if s.Size[1] != 0 {
		local[1] = pos[1] / s.Size[1]
	}
	return [2]float64{s.UV0[0] + local[0]*uvSize[0], s.UV0[1] + local[1]*uvSize[1]}
}

// UVToPos is the inverse of PosToUV.
func (s Sprite) UVToPos(uv [2]float64) [2]float64 {
	uvSize := s.uvSize()
	var local [2]float64
	if uvSize[0] != 0 {
		local[0] = (uv[0] - s.UV0[0]) / uvSize[0]
	}
	if uvSize[1] != 0 {
		local[1] = (uv[1] - s.UV0[1]) / uvSize[1]
	}
	return [2]float64{local[0] * s.Size[0], local[1] * s.Size[1]}
}

// MapUV maps a normalized [0,1] local UV coordinate into the sprite's
// actual UV rectangle.
func (s Sprite) MapUV(local [2]float64) [2]float64 {
	uvSize := s.uvSize()
	return [2]float64{s.UV0[0] + local[0]*uvSize[0], s.UV0[1] + local[1]*uvSize[1]}
}

// Center returns the midpoint of the sprite's UV rectangle.
func (s Sprite) Center() [2]float64 {
	return [2]float64{(s.UV0[0] + s.UV1[0]) / 2, (s.UV0[1] + s.UV1[1]) / 2}
}

// MaxQuads returns the statically computable upper bound on the number of
// quads this sprite's draw setting may emit. tileH is only consulted for
// DrawRepeatVertical.
func (s Sprite) MaxQuads(tileH float64) int {
	switch s.Draw.Kind {
	case DrawNormal:
		return 1
	case DrawSeg3:
		return 3
	case DrawSeg5:
		return 5
	case DrawSlice9:
		// A 3x3 grid with the centre cell omitted: four corners, four edges.
		return 8
	case DrawRepeatVertical:
		if tileH <= 0 {
			return 0
		}
		dim := math.Max(s.Size[0], s.Size[1])
		return int(math.Ceil((dim + 3*tileH) / tileH))
	default:
		return 0
	}
}

// MaxBytes returns MaxQuads(tileH) * BytesPerQuad.
func (s Sprite) MaxBytes(tileH float64) int {
	return s.MaxQuads(tileH) * BytesPerQuad
}
