// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Scales is a snapshot of a Context's data-to-pixel mappings. It is
// safe to use after the Context changes and does no locking, so
// renderers use it for their inner loops.
type Scales struct {
	x, y           scale.Linear
	x0, x1, y0, y1 float64
}

func newScales(xmin, xmax, ymin, ymax float64, x0, x1, y0, y1 float64) Scales {
	return Scales{
		x:  scale.Linear{Min: xmin, Max: xmax, Base: 10},
		y:  scale.Linear{Min: ymin, Max: ymax, Base: 10},
		x0: x0, x1: x1,
		y0: y0, y1: y1,
	}
}

// X maps a data X coordinate to a pixel column.
func (s Scales) X(v float64) float64 {
	return interp(s.x, v, s.x0, s.x1)
}

// Y maps a data Y coordinate to a pixel row. Larger values map to
// smaller rows.
func (s Scales) Y(v float64) float64 {
	return interp(s.y, v, s.y0, s.y1)
}

// InvertX maps a pixel column back to a data X coordinate.
func (s Scales) InvertX(px float64) float64 {
	if s.x1 == s.x0 {
		return s.x.Min
	}
	return s.x.Min + (px-s.x0)/(s.x1-s.x0)*(s.x.Max-s.x.Min)
}

// XRange returns the pixel range of the X axis.
func (s Scales) XRange() (lo, hi float64) { return s.x0, s.x1 }

// YRange returns the pixel range of the Y axis, bottom first.
func (s Scales) YRange() (bottom, top float64) { return s.y0, s.y1 }

func interp(l scale.Linear, v, r0, r1 float64) float64 {
	if l.Min == l.Max {
		return r0
	}
	return r0 + l.Map(v)*(r1-r0)
}

// ticks returns at most n major tick positions for l.
func ticks(l scale.Linear, n int) []float64 {
	if n < 1 || math.IsInf(l.Min, 0) || math.IsInf(l.Max, 0) || math.IsNaN(l.Min) || math.IsNaN(l.Max) {
		return nil
	}
	if l.Min == l.Max {
		return []float64{l.Min}
	}
	major, _ := l.Ticks(scale.TickOptions{Max: n})
	return major
}
