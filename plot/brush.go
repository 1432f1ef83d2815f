// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"

	"github.com/g-node/crayon/canvas"
)

// A brush is the selection overlay of a context. It covers the
// plotting area vertically and records an X extent in data
// coordinates.
type brush struct {
	group      *canvas.Group
	background *canvas.Rect
	extent     *canvas.Rect

	x0, x1 float64

	// last is the extent most recently reported to the callback.
	last [2]float64
}

// initSelectionLocked attaches or refreshes the brush when c has a
// selection callback and removes it otherwise. Either way the last
// reported extent is reset to the full X range.
func (c *Context) initSelectionLocked(sc Scales) {
	if c.onselect == nil {
		if c.brush != nil {
			c.group.Remove(c.brush.group)
			c.brush = nil
		}
		c.group.Class = canvas.Class{"context"}
		c.group.Style = ""
		return
	}

	c.group.Class = canvas.Class{"context", "brush"}
	c.group.Style = "pointer-events:all"
	if c.brush == nil {
		b := &brush{
			group:      &canvas.Group{Class: canvas.Class{"selection"}},
			background: &canvas.Rect{Class: canvas.Class{"background"}, Style: "fill:none;cursor:crosshair"},
			extent:     &canvas.Rect{Class: canvas.Class{"extent"}, Style: "fill:steelblue;fill-opacity:0.125;stroke:#fff"},
		}
		b.group.Append(b.background, b.extent)
		c.group.Append(b.group)
		c.brush = b
	}
	b := c.brush
	lo, hi := sc.XRange()
	for _, r := range []*canvas.Rect{b.background, b.extent} {
		r.Y = float64(c.padding)
		r.H = float64(c.height - 2*c.padding)
	}
	b.background.X, b.background.W = lo, hi-lo
	b.x0, b.x1 = c.xmin, c.xmax
	b.last = [2]float64{c.xmin, c.xmax}
	c.layoutExtentLocked(sc)
}

// layoutExtentLocked positions the extent rectangle. A brush covering
// the whole X range is drawn empty.
func (c *Context) layoutExtentLocked(sc Scales) {
	b := c.brush
	if b.x0 == c.xmin && b.x1 == c.xmax {
		b.extent.X, b.extent.W = sc.X(c.xmin), 0
		return
	}
	x0, x1 := sc.X(b.x0), sc.X(b.x1)
	b.extent.X, b.extent.W = x0, x1-x0
}

// Extent returns the X extent of c's brush. It reports false if c has
// no brush.
func (c *Context) Extent() (xmin, xmax float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.brush == nil {
		return 0, 0, false
	}
	return c.brush.x0, c.brush.x1, true
}

// BrushEnd finishes a brush gesture that selected the data range
// [x0, x1]. The range is clipped to c's X range. A selection less than
// one pixel wide selects the whole X range. The selection callback is
// invoked only if the result differs from the last extent it was
// given.
func (c *Context) BrushEnd(x0, x1 float64) {
	c.mu.Lock()
	if c.brush == nil || c.onselect == nil {
		c.mu.Unlock()
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = math.Max(x0, c.xmin)
	x1 = math.Min(x1, c.xmax)
	sc := c.scalesLocked()
	if !(sc.X(x1)-sc.X(x0) >= 1) {
		x0, x1 = c.xmin, c.xmax
	}
	b := c.brush
	b.x0, b.x1 = x0, x1
	c.layoutExtentLocked(sc)

	fn := c.onselect
	changed := x0 != b.last[0] || x1 != b.last[1]
	if changed {
		b.last = [2]float64{x0, x1}
	}
	c.mu.Unlock()

	if changed {
		fn(x0, x1)
	}
}

// BrushPixels is like BrushEnd, but takes the selection as pixel
// columns of c.
func (c *Context) BrushPixels(px0, px1 float64) {
	sc := c.Scales()
	c.BrushEnd(sc.InvertX(px0), sc.InvertX(px1))
}
