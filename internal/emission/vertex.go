// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package emission

import "github.com/notecore/chartcore/internal/bitio"

// PosUV is one corner of a quad: a screen position and its UV coordinate.
type PosUV struct {
	X, Y float32
	U, V float32
}

// Quad is four corners in the order top-left, top-right, bottom-left,
// bottom-right.
type Quad struct {
	P0, P1, P2, P3 PosUV
}

// WriteQuad serializes q as two triangles, (p0,p1,p2) then (p1,p2,p3),
// six vertices of 20 bytes each, all sharing color.
func WriteQuad(sink *bitio.Sink, q Quad, color [4]byte) error {
	for _, p := range []PosUV{q.P0, q.P1, q.P2, q.P1, q.P2, q.P3} {
		if err := writeVertex(sink, p, color); err != nil {
			return err
		}
	}
	return nil
}

func writeVertex(sink *bitio.Sink, p PosUV, color [4]byte) error {
	if err := sink.WriteFloat32(p.X); err != nil {
		return err
	}
	if err := sink.WriteFloat32(p.Y); err != nil {
		return err
	}
	if err := sink.WriteFloat32(p.U); err != nil {
		return err
	}
	if err := sink.WriteFloat32(p.V); err != nil {
		return err
	}
	return sink.WriteByte4(color)
}
