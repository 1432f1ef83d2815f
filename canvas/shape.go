// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"math"

	svg "github.com/ajstarks/svgo"
)

// A Path is a <path> element. D is SVG path data.
type Path struct {
	ID    string
	Class Class
	D     string
	Style string
	Attrs []string
}

func (p *Path) Classes() Class { return p.Class }

// SetMarkers references marker id at every vertex of p.
func (p *Path) SetMarkers(id string) {
	url := "url(#" + id + ")"
	p.Attrs = append(p.Attrs,
		attr("marker-start", url),
		attr("marker-mid", url),
		attr("marker-end", url))
}

func (p *Path) write(w *svg.SVG) {
	w.Path(p.D, attrs(p.ID, p.Class, p.Style, p.Attrs)...)
}

// A Line is a <line> element. Coordinates are rounded to whole
// pixels.
type Line struct {
	Class          Class
	X1, Y1, X2, Y2 float64
	Style          string
}

func (l *Line) Classes() Class { return l.Class }

func (l *Line) write(w *svg.SVG) {
	w.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2), attrs("", l.Class, l.Style, nil)...)
}

// A Rect is a <rect> element. Coordinates are rounded to whole
// pixels.
type Rect struct {
	Class      Class
	X, Y, W, H float64
	Style      string
	Attrs      []string
}

func (r *Rect) Classes() Class { return r.Class }

func (r *Rect) write(w *svg.SVG) {
	w.Rect(px(r.X), px(r.Y), px(math.Max(r.W, 0)), px(math.Max(r.H, 0)), attrs("", r.Class, r.Style, r.Attrs)...)
}

// Anchor is a text-anchor value.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// A Text is a <text> element.
type Text struct {
	Class  Class
	X, Y   float64
	Text   string
	Anchor Anchor
	// Baseline is the dominant-baseline, such as "hanging" or
	// "middle". Empty means the SVG default.
	Baseline string
	Style    string
}

func (t *Text) Classes() Class { return t.Class }

func (t *Text) write(w *svg.SVG) {
	var extra []string
	if t.Anchor != "" {
		extra = append(extra, attr("text-anchor", string(t.Anchor)))
	}
	if t.Baseline != "" {
		extra = append(extra, attr("dominant-baseline", t.Baseline))
	}
	w.Text(px(t.X), px(t.Y), t.Text, attrs("", t.Class, t.Style, extra)...)
}

// A Marker is a <marker> definition. Its children are drawn in a
// W x H box whose (RefX, RefY) point is placed on the marked vertex.
type Marker struct {
	ID         string
	Class      Class
	RefX, RefY float64
	W, H       float64
	Children   []Node
}

func (m *Marker) Classes() Class { return m.Class }

func (m *Marker) write(w *svg.SVG) {
	extra := []string{attr("markerUnits", "userSpaceOnUse"), attr("overflow", "visible")}
	if len(m.Class) > 0 {
		extra = append(extra, attr("class", m.Class.String()))
	}
	w.Marker(m.ID, px(m.RefX), px(m.RefY), pxUp(m.W), pxUp(m.H), extra...)
	for _, c := range m.Children {
		c.write(w)
	}
	w.MarkerEnd()
}

func px(v float64) int {
	return int(math.Round(v))
}

// pxUp rounds a size up to at least one pixel.
func pxUp(v float64) int {
	if v < 1 {
		return 1
	}
	return int(math.Ceil(v))
}
