// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package timingstore owns the sorted sequence of timing points a chart
// uses to convert between chart time and musical bars.
package timingstore

// TimingPoint marks a tempo/meter change at a point in chart time.
type TimingPoint struct {
	Time       float64
	BeatLength float64
	Meter      int
}

// BPM returns the point's tempo in beats per minute.
func (p TimingPoint) BPM() float64 {
	return 60000 / p.BeatLength
}

// barDuration returns the duration, in milliseconds, of one full bar under
// this timing point.
func (p TimingPoint) barDuration() float64 {
	return p.BeatLength * float64(p.Meter)
}
