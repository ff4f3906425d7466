// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package delaunay implements the wire contract of the Delaunator
// handshake only. The triangulation algorithm itself is out of scope for
// this core; Triangulate exists so the message format has a concrete,
// testable shape at the boundary instead of being left as prose.
package delaunay

import (
	"github.com/notecore/chartcore/internal/bitio"
	"github.com/notecore/chartcore/internal/coreerr"
)

// Point is one input vertex, always decoded to float64 regardless of the
// wire format's f32/f64 flag.
type Point struct {
	X, Y float64
}

// Triangle is one output triangle, three planar points.
type Triangle struct {
	X0, Y0, X1, Y1, X2, Y2 float64
}

// DecodeInput parses a Delaunator input message: a u32 point count
// followed by point_count coordinate pairs. The format flag is not read
// from buf; the caller passes it as wide (false = f32, true = f64).
func DecodeInput(buf []byte, wide bool) ([]Point, error) {
	c := bitio.NewCursor(buf)
	count, err := c.ReadUint32()
	if err != nil {
		return nil, coreerr.ErrDecodeError
	}

	points := make([]Point, 0, count)
	for i := uint32(0); i < count; i++ {
		var x, y float64
		if wide {
			if x, err = c.ReadFloat64(); err != nil {
				return nil, coreerr.ErrDecodeError
			}
			if y, err = c.ReadFloat64(); err != nil {
				return nil, coreerr.ErrDecodeError
			}
		} else {
			var x32, y32 float32
			if x32, err = c.ReadFloat32(); err != nil {
				return nil, coreerr.ErrDecodeError
			}
			if y32, err = c.ReadFloat32(); err != nil {
				return nil, coreerr.ErrDecodeError
			}
			x, y = float64(x32), float64(y32)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// EncodeOutput serializes triangles as a u32 triangle count followed by
// six f64 coordinates per triangle.
func EncodeOutput(triangles []Triangle) []byte {
	w := bitio.NewWriter()
	w.WriteUint32(uint32(len(triangles)))
	for _, tr := range triangles {
		w.WriteFloat64(tr.X0)
		w.WriteFloat64(tr.Y0)
		w.WriteFloat64(tr.X1)
		w.WriteFloat64(tr.Y1)
		w.WriteFloat64(tr.X2)
		w.WriteFloat64(tr.Y2)
	}
	return w.Bytes()
}

// Triangulate implements the input/output wire contract of the Delaunator
// handshake (§6): fewer than three points always yields a zero-triangle
// result. The triangulation algorithm proper is not implemented; any
// input with three or more points returns coreerr.ErrNotImplemented.
func Triangulate(points []Point) ([]Triangle, error) {
	if len(points) < 3 {
		return nil, nil
	}
	return nil, coreerr.ErrNotImplemented
}
