// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/g-node/crayon/canvas"
	"github.com/g-node/crayon/internal/svgpath"
	"github.com/g-node/crayon/source"
	"github.com/google/uuid"
)

// A Renderer draws the series of a group of sources onto a Context.
//
// Every shape a Renderer draws carries the class "plot" and the
// renderer's own class token, so Clear removes exactly this
// renderer's shapes from every context it has drawn on.
type Renderer interface {
	// Render draws the data of sources, or their sliced data if
	// sliced is true, onto c. It fails if any source has not been
	// loaded (or sliced).
	Render(c *Context, sources []source.Source, sliced bool) error

	// Clear removes everything the renderer has drawn.
	Clear()

	// Class returns the renderer's unique class token.
	Class() string
}

// rendererBase holds the state common to all renderers.
type rendererBase struct {
	token   string
	classes canvas.Class

	mu       sync.Mutex
	contexts map[string]*Context
}

func (r *rendererBase) init(kind string) {
	r.token = "renderer-" + uuid.NewString()
	r.classes = canvas.Class{plotClass, kind, r.token}
	r.contexts = make(map[string]*Context)
}

func (r *rendererBase) Class() string { return r.token }

// remember records that r has drawn on c.
func (r *rendererBase) remember(c *Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts[c.Name()] = c
}

func (r *rendererBase) Clear() {
	r.mu.Lock()
	ctxs := make([]*Context, 0, len(r.contexts))
	for _, c := range r.contexts {
		ctxs = append(ctxs, c)
	}
	r.mu.Unlock()
	for _, c := range ctxs {
		c.RemoveClass(r.token)
	}
}

// collect concatenates the series of sources.
func collect(sources []source.Source, sliced bool) ([]source.Series, error) {
	var all []source.Series
	for _, src := range sources {
		var series []source.Series
		var err error
		if sliced {
			series, err = src.Sliced()
		} else {
			series, err = src.Data()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		}
		all = append(all, series...)
	}
	return all, nil
}

// A SignalRenderer draws each series as a connected line.
type SignalRenderer struct {
	rendererBase
}

// NewSignalRenderer returns a new SignalRenderer.
func NewSignalRenderer() *SignalRenderer {
	r := new(SignalRenderer)
	r.init("signal")
	return r
}

const defaultSignalStyle = "stroke:black"

// Render draws one path per series. Series without points are
// skipped.
func (r *SignalRenderer) Render(c *Context, sources []source.Source, sliced bool) error {
	r.remember(c)
	series, err := collect(sources, sliced)
	if err != nil {
		return err
	}

	sc := c.Scales()
	nodes := make([]canvas.Node, 0, len(series))
	for _, s := range series {
		n := source.Points(s.Data)
		if n == 0 {
			continue
		}
		p := svgpath.New(1)
		for i := 0; i < n; i++ {
			x, y := source.Point(s.Data, i)
			p.Point(sc.X(x), sc.Y(y))
		}
		style := s.Style
		if style == "" {
			style = defaultSignalStyle
		}
		nodes = append(nodes, &canvas.Path{Class: r.classes, D: p.String(), Style: noFill(style)})
	}
	c.Draw(nodes...)
	return nil
}

// noFill adds fill:none to style unless it sets a fill.
func noFill(style string) string {
	if strings.Contains(style, "fill:") {
		return style
	}
	return strings.TrimSuffix(style, ";") + ";fill:none"
}

// A SpikeRenderer draws each series as a row of tick marks, one per
// point. Rows divide the context's Y range evenly, first series at
// the bottom.
type SpikeRenderer struct {
	rendererBase
}

// NewSpikeRenderer returns a new SpikeRenderer.
func NewSpikeRenderer() *SpikeRenderer {
	r := new(SpikeRenderer)
	r.init("spike")
	return r
}

const (
	defaultSpikeStyle = "stroke:black;stroke-opacity:0.8"

	// spikeHeadroom is the fraction of a row a tick mark fills.
	spikeHeadroom = 0.8
)

// Render draws one path per series with a tick marker on each
// vertex. Markers from an earlier Render on c are replaced. Marker ids
// include c's name, so each context's markers keep their own height.
func (r *SpikeRenderer) Render(c *Context, sources []source.Source, sliced bool) error {
	r.remember(c)
	series, err := collect(sources, sliced)
	if err != nil {
		return err
	}

	c.Undefine(r.token)
	if len(series) == 0 {
		return nil
	}

	sc := c.Scales()
	ymin, ymax := c.YMin(), c.YMax()
	ystep := (ymax - ymin) / float64(len(series))
	height := math.Ceil(float64(c.Height()) / float64(len(series)) * spikeHeadroom)

	var markers, paths []canvas.Node
	for i, s := range series {
		id := fmt.Sprintf("%s-%s-spike-%d", r.token, c.Name(), i)
		markers = append(markers, spikeMarker(id, r.token, height, s.Style))

		n := source.Points(s.Data)
		if n == 0 {
			continue
		}
		y := sc.Y(ymin + ystep*float64(i))
		p := svgpath.New(1)
		for j := 0; j < n; j++ {
			x, _ := source.Point(s.Data, j)
			p.Point(sc.X(x), y)
		}
		path := &canvas.Path{Class: r.classes, D: p.String(), Style: "fill:none"}
		path.SetMarkers(id)
		paths = append(paths, path)
	}
	c.Define(markers...)
	c.Draw(paths...)
	return nil
}

// spikeMarker returns a vertical tick of the given height whose
// bottom sits on the marked point.
func spikeMarker(id, token string, height float64, style string) *canvas.Marker {
	if style == "" {
		style = defaultSpikeStyle
	}
	m := &canvas.Marker{
		ID:    id,
		Class: canvas.Class{token},
		W:     1,
		H:     height,
		RefY:  height,
	}
	m.Children = append(m.Children, &canvas.Line{Y1: height, Style: "stroke-width:1;fill:none;" + style})
	return m
}
