// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

// A Buffer is a flat sequence of interleaved (x, y) pairs:
// [x0, y0, x1, y1, ...]. Len must be even.
type Buffer interface {
	// Len returns the number of values (twice the number of
	// points).
	Len() int

	// At returns the i'th value.
	At(i int) float64

	// Slice returns values [i, j) without copying.
	Slice(i, j int) Buffer
}

// Float64s is a Buffer of float64 values.
type Float64s []float64

func (b Float64s) Len() int              { return len(b) }
func (b Float64s) At(i int) float64      { return b[i] }
func (b Float64s) Slice(i, j int) Buffer { return b[i:j:j] }

// Float32s is a Buffer of float32 values. It halves the memory of
// long time series at the cost of precision.
type Float32s []float32

func (b Float32s) Len() int              { return len(b) }
func (b Float32s) At(i int) float64      { return float64(b[i]) }
func (b Float32s) Slice(i, j int) Buffer { return b[i:j:j] }

// Points returns the number of (x, y) pairs in b.
func Points(b Buffer) int {
	if b == nil {
		return 0
	}
	return b.Len() / 2
}

// Point returns the i'th (x, y) pair of b.
func Point(b Buffer, i int) (x, y float64) {
	return b.At(2 * i), b.At(2*i + 1)
}

// A Series is one plottable line or spike train.
type Series struct {
	Data Buffer

	// Style is an SVG style attribute value. It may be empty, in
	// which case renderers use their default.
	Style string

	// Name optionally labels the series.
	Name string
}
