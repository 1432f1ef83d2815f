// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"fmt"
	"math"
)

// Borders is the bounding box of a data set.
type Borders struct {
	XMin, XMax, YMin, YMax float64
}

// EmptyBorders returns Borders that contain no points. Including any
// point in them yields exactly that point.
func EmptyBorders() Borders {
	return Borders{
		XMin: math.Inf(1), XMax: math.Inf(-1),
		YMin: math.Inf(1), YMax: math.Inf(-1),
	}
}

// IsEmpty reports whether b contains no points.
func (b Borders) IsEmpty() bool {
	return !(b.XMin <= b.XMax && b.YMin <= b.YMax)
}

// Include returns b extended to contain (x, y). NaN coordinates are
// ignored.
func (b Borders) Include(x, y float64) Borders {
	// Each bound is checked on its own. A point can be both the
	// new minimum and the new maximum (for example, the first
	// point).
	if x < b.XMin {
		b.XMin = x
	}
	if x > b.XMax {
		b.XMax = x
	}
	if y < b.YMin {
		b.YMin = y
	}
	if y > b.YMax {
		b.YMax = y
	}
	return b
}

// Union returns the smallest Borders containing both b and o.
func (b Borders) Union(o Borders) Borders {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Borders{
		XMin: math.Min(b.XMin, o.XMin), XMax: math.Max(b.XMax, o.XMax),
		YMin: math.Min(b.YMin, o.YMin), YMax: math.Max(b.YMax, o.YMax),
	}
}

func (b Borders) String() string {
	return fmt.Sprintf("x [%g,%g] y [%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
}

// SeriesBorders returns the borders of every pair in every series.
func SeriesBorders(series []Series) Borders {
	b := EmptyBorders()
	for _, s := range series {
		if s.Data == nil {
			continue
		}
		n := Points(s.Data)
		for i := 0; i < n; i++ {
			b = b.Include(Point(s.Data, i))
		}
	}
	return b
}
