// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"math"
	"sync"

	"github.com/g-node/crayon/canvas"
)

const (
	defaultPadding = 20
	defaultXTicks  = 10
	defaultYTicks  = 5

	// yAxisGap is the extra space left of the plotting area for Y
	// axis labels.
	yAxisGap = 10
)

// plotClass marks every shape drawn by a renderer.
const plotClass = "plot"

// A Context is a region of a surface with its own data ranges and
// axes that renderers draw onto.
//
// Every setter redraws the context and returns it so that calls can
// be chained. Use Options to change several settings with a single
// redraw.
type Context struct {
	name string

	mu       sync.Mutex
	group    *canvas.Group
	axes     *canvas.Group
	width    int
	height   int
	padding  int
	xmin     float64
	xmax     float64
	ymin     float64
	ymax     float64
	xticks   int
	yticks   int
	offset   int
	onselect func(xmin, xmax float64)
	brush    *brush
}

// NewContext adds a context named name to surface s. Settings not
// given by opts take their defaults: the surface's size, a padding
// of 20 pixels, 10 X ticks, 5 Y ticks and data ranges equal to the
// plotting area's pixel size.
func NewContext(s *canvas.Surface, name string, opts ...Option) *Context {
	var set settings
	set.apply(opts)

	c := &Context{
		name:    name,
		width:   s.Width,
		height:  s.Height,
		padding: defaultPadding,
		xticks:  defaultXTicks,
		yticks:  defaultYTicks,
	}
	if set.width != nil {
		c.width = *set.width
	}
	if set.height != nil {
		c.height = *set.height
	}
	if set.padding != nil {
		c.padding = *set.padding
	}
	c.xmax = float64(c.width - (2*c.padding + yAxisGap))
	c.ymax = float64(c.height - 2*c.padding)

	c.group = s.Root.AppendGroup(name, "context")
	c.axes = c.group.AppendGroup("", "axes")
	c.group.Defs()
	c.applyLocked(&set)
	c.redrawLocked()
	return c
}

// Name returns the name of c.
func (c *Context) Name() string { return c.name }

// Group returns the canvas group c draws into.
func (c *Context) Group() *canvas.Group { return c.group }

// Width returns the pixel width of c.
func (c *Context) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Height returns the pixel height of c.
func (c *Context) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Padding returns the space around c's plotting area.
func (c *Context) Padding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.padding
}

// XMin returns the lower bound of the X range.
func (c *Context) XMin() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.xmin
}

// XMax returns the upper bound of the X range.
func (c *Context) XMax() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.xmax
}

// YMin returns the lower bound of the Y range.
func (c *Context) YMin() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ymin
}

// YMax returns the upper bound of the Y range.
func (c *Context) YMax() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ymax
}

// XTicks returns the maximum number of X axis ticks.
func (c *Context) XTicks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.xticks
}

// YTicks returns the maximum number of Y axis ticks.
func (c *Context) YTicks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yticks
}

// OnSelect returns c's selection callback, or nil.
func (c *Context) OnSelect() func(xmin, xmax float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onselect
}

// Each setter changes one setting and redraws c.
func (c *Context) SetWidth(px int) *Context { return c.Options(Width(px)) }
func (c *Context) SetHeight(px int) *Context { return c.Options(Height(px)) }
func (c *Context) SetPadding(px int) *Context { return c.Options(Padding(px)) }
func (c *Context) SetXMin(v float64) *Context { return c.Options(XMin(v)) }
func (c *Context) SetXMax(v float64) *Context { return c.Options(XMax(v)) }
func (c *Context) SetYMin(v float64) *Context { return c.Options(YMin(v)) }
func (c *Context) SetYMax(v float64) *Context { return c.Options(YMax(v)) }
func (c *Context) SetXTicks(n int) *Context { return c.Options(XTicks(n)) }
func (c *Context) SetYTicks(n int) *Context { return c.Options(YTicks(n)) }
func (c *Context) SetOnSelect(fn func(xmin, xmax float64)) *Context {
	return c.Options(OnSelect(fn))
}

// Options applies opts and redraws c once.
func (c *Context) Options(opts ...Option) *Context {
	var set settings
	set.apply(opts)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(&set)
	c.redrawLocked()
	return c
}

func (c *Context) applyLocked(s *settings) {
	if s.width != nil {
		c.width = *s.width
	}
	if s.height != nil {
		c.height = *s.height
	}
	if s.padding != nil {
		c.padding = *s.padding
	}
	if s.xmin != nil {
		c.xmin = adjustDown(*s.xmin)
	}
	if s.xmax != nil {
		c.xmax = adjustUp(*s.xmax)
	}
	if s.ymin != nil {
		c.ymin = adjustDown(*s.ymin)
	}
	if s.ymax != nil {
		c.ymax = adjustUp(*s.ymax)
	}
	if c.xmin > c.xmax {
		c.xmin, c.xmax = c.xmax, c.xmin
	}
	if c.ymin > c.ymax {
		c.ymin, c.ymax = c.ymax, c.ymin
	}
	if s.xticks != nil {
		c.xticks = *s.xticks
	}
	if s.yticks != nil {
		c.yticks = *s.yticks
	}
	if s.hasOnselect {
		c.onselect = s.onselect
	}
}

// adjustDown and adjustUp round range bounds outward so that axis
// ticks stay stable as data changes.
func adjustDown(v float64) float64 {
	if math.Abs(v) > 0 {
		return math.Floor(v)
	}
	return v
}

func adjustUp(v float64) float64 {
	if math.Abs(v) > 0 {
		return math.Ceil(v)
	}
	return v
}

// Scales returns a snapshot of c's current mappings.
func (c *Context) Scales() Scales {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scalesLocked()
}

func (c *Context) scalesLocked() Scales {
	return newScales(c.xmin, c.xmax, c.ymin, c.ymax,
		float64(c.padding+yAxisGap), float64(c.width-c.padding),
		float64(c.height-c.padding), float64(c.padding))
}

// XScale maps a data X coordinate to a pixel column.
func (c *Context) XScale(v float64) float64 { return c.Scales().X(v) }

// YScale maps a data Y coordinate to a pixel row.
func (c *Context) YScale(v float64) float64 { return c.Scales().Y(v) }

// Offset returns the vertical position of c on its surface.
func (c *Context) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// SetOffset moves c to vertical position y on its surface.
func (c *Context) SetOffset(y int) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = y
	c.group.Transform = fmt.Sprintf("translate(0,%d)", y)
	return c
}

// Redraw recomputes c's scales and redraws its axes and brush.
func (c *Context) Redraw() *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redrawLocked()
	return c
}

func (c *Context) redrawLocked() {
	sc := c.scalesLocked()
	c.axes.Children = c.axes.Children[:0]
	c.axes.Append(
		c.xAxis(sc),
		c.yAxis(sc),
	)
	c.initSelectionLocked(sc)
}

const tickSize = 6

func (c *Context) xAxis(sc Scales) *canvas.Group {
	g := &canvas.Group{
		Class:     canvas.Class{"axis", "x"},
		Transform: fmt.Sprintf("translate(0,%d)", c.height-c.padding),
	}
	lo, hi := sc.XRange()
	g.Append(&canvas.Line{Class: canvas.Class{"domain"}, X1: lo, X2: hi, Style: "stroke:black"})
	for _, t := range ticks(sc.x, c.xticks) {
		x := sc.X(t)
		g.Append(
			&canvas.Line{Class: canvas.Class{"tick"}, X1: x, X2: x, Y2: tickSize, Style: "stroke:black"},
			&canvas.Text{Class: canvas.Class{"tick"}, X: x, Y: tickSize + 3, Text: fmt.Sprintf("%.6g", t),
				Anchor: canvas.AnchorMiddle, Baseline: "hanging"},
		)
	}
	return g
}

func (c *Context) yAxis(sc Scales) *canvas.Group {
	g := &canvas.Group{
		Class:     canvas.Class{"axis", "y"},
		Transform: fmt.Sprintf("translate(%d,0)", c.padding+yAxisGap),
	}
	bottom, top := sc.YRange()
	g.Append(&canvas.Line{Class: canvas.Class{"domain"}, Y1: bottom, Y2: top, Style: "stroke:black"})
	for _, t := range ticks(sc.y, c.yticks) {
		y := sc.Y(t)
		g.Append(
			&canvas.Line{Class: canvas.Class{"tick"}, X1: -tickSize, Y1: y, Y2: y, Style: "stroke:black"},
			&canvas.Text{Class: canvas.Class{"tick"}, X: -tickSize - 3, Y: y, Text: fmt.Sprintf("%.6g", t),
				Anchor: canvas.AnchorEnd, Baseline: "middle"},
		)
	}
	return g
}

// Defs returns the reusable definitions of c.
func (c *Context) Defs() *canvas.Defs {
	return c.group.Defs()
}

// Draw adds nodes to c's group.
func (c *Context) Draw(nodes ...canvas.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.group.Append(nodes...)
}

// Define adds nodes to c's definitions.
func (c *Context) Define(nodes ...canvas.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.group.Defs().Append(nodes...)
}

// Undefine removes every definition of c that has class name.
func (c *Context) Undefine(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group.Defs().RemoveClass(name)
}

// RemoveClass removes every node in c, including definitions, that
// has class name. It returns the number of nodes removed.
func (c *Context) RemoveClass(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group.RemoveClass(name)
}

// Clear removes all plotted shapes from c. Axes and the brush are
// left in place.
func (c *Context) Clear() *Context {
	c.RemoveClass(plotClass)
	return c
}
