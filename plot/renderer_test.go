// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/g-node/crayon/canvas"
	"github.com/g-node/crayon/source"
)

func loaded(t *testing.T, name string, series ...source.Series) *source.Static {
	t.Helper()
	s := source.NewStatic(name, series...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func paths(c *Context, class string) []*canvas.Path {
	var out []*canvas.Path
	for _, n := range c.Group().FindClass(class) {
		if p, ok := n.(*canvas.Path); ok {
			out = append(out, p)
		}
	}
	return out
}

func TestSignalRenderer(t *testing.T) {
	c := NewContext(canvas.NewSurface(400, 300), "ctx", XRange(0, 2), YRange(-3, 8))
	a := loaded(t, "a",
		source.Series{Data: source.Float64s{0, 5, 1, -3, 2, 8}},
		source.Series{Data: source.Float64s{0, 0, 2, 0}, Style: "stroke:red"})
	r := NewSignalRenderer()
	if err := r.Render(c, []source.Source{a}, false); err != nil {
		t.Fatal(err)
	}

	ps := paths(c, r.Class())
	if len(ps) != 2 {
		t.Fatalf("got %d paths, want 2", len(ps))
	}
	want := fmt.Sprintf("M%.1f %.1f L%.1f %.1f L%.1f %.1f",
		c.XScale(0), c.YScale(5), c.XScale(1), c.YScale(-3), c.XScale(2), c.YScale(8))
	if ps[0].D != want {
		t.Errorf("path data is %q, want %q", ps[0].D, want)
	}
	if got := ps[0].Class.String(); got != "plot signal "+r.Class() {
		t.Errorf("class is %q", got)
	}
	if ps[0].Style != "stroke:black;fill:none" {
		t.Errorf("default style is %q", ps[0].Style)
	}
	if ps[1].Style != "stroke:red;fill:none" {
		t.Errorf("series style is %q", ps[1].Style)
	}
	if !strings.HasPrefix(r.Class(), "renderer-") || r.Class() == NewSignalRenderer().Class() {
		t.Errorf("renderer class %q is not a unique token", r.Class())
	}
}

func TestRenderNotReady(t *testing.T) {
	c := NewContext(canvas.NewSurface(400, 300), "ctx")
	a := loaded(t, "a", source.Series{Data: source.Float64s{0, 1}})
	r := NewSignalRenderer()
	if err := r.Render(c, []source.Source{a}, true); !errors.Is(err, source.ErrNotSliced) {
		t.Errorf("rendering unsliced data: got %v, want ErrNotSliced", err)
	}
	b := source.NewStatic("b")
	if err := r.Render(c, []source.Source{b}, false); !errors.Is(err, source.ErrNotReady) {
		t.Errorf("rendering unloaded data: got %v, want ErrNotReady", err)
	}
}

func TestRendererClear(t *testing.T) {
	s := canvas.NewSurface(400, 300)
	c1 := NewContext(s, "c1")
	c2 := NewContext(s, "c2")
	a := loaded(t, "a", source.Series{Data: source.Float64s{0, 1, 1, 2}})
	r1, r2 := NewSignalRenderer(), NewSpikeRenderer()
	for _, c := range []*Context{c1, c2} {
		if err := r1.Render(c, []source.Source{a}, false); err != nil {
			t.Fatal(err)
		}
		if err := r2.Render(c, []source.Source{a}, false); err != nil {
			t.Fatal(err)
		}
	}

	r1.Clear()
	for _, c := range []*Context{c1, c2} {
		if n := len(paths(c, r1.Class())); n != 0 {
			t.Errorf("%s: %d paths of the cleared renderer remain", c.Name(), n)
		}
		if n := len(paths(c, r2.Class())); n != 1 {
			t.Errorf("%s: got %d paths of the other renderer, want 1", c.Name(), n)
		}
	}
	r2.Clear()
	if n := len(c1.Group().FindClass(r2.Class())); n != 0 {
		t.Errorf("%d nodes of the spike renderer remain, including markers", n)
	}
}

func TestSpikeRenderer(t *testing.T) {
	c := NewContext(canvas.NewSurface(400, 300), "ctx", XRange(0, 10), YRange(0, 1))
	trains := loaded(t, "trains",
		source.Series{Data: source.Float64s{1, 0.01, 2, 0.01, 5, 0.01}},
		source.Series{Data: source.Float64s{3, 0.01, 4, 0.01}, Style: "stroke:blue"})
	r := NewSpikeRenderer()
	for i := 0; i < 2; i++ {
		if err := r.Render(c, []source.Source{trains}, false); err != nil {
			t.Fatal(err)
		}
	}

	var markers []*canvas.Marker
	for _, n := range c.Defs().Children {
		if m, ok := n.(*canvas.Marker); ok {
			markers = append(markers, m)
		}
	}
	if len(markers) != 2 {
		t.Fatalf("got %d markers after two renders, want 2", len(markers))
	}
	for i, m := range markers {
		if want := fmt.Sprintf("%s-ctx-spike-%d", r.Class(), i); m.ID != want {
			t.Errorf("marker %d id is %q, want %q", i, m.ID, want)
		}
		// Two rows, 80% headroom.
		if want := math.Ceil(float64(c.Height()) / 2 * spikeHeadroom); m.H != want {
			t.Errorf("marker height is %v, want %v", m.H, want)
		}
	}
	line := markers[0].Children[0].(*canvas.Line)
	if !strings.Contains(line.Style, defaultSpikeStyle) {
		t.Errorf("default marker style missing: %q", line.Style)
	}

	ps := paths(c, r.Class())
	if len(ps) != 4 {
		t.Fatalf("got %d paths, want 4", len(ps))
	}
	// Rows sit at ymin + i*(ymax-ymin)/n.
	for i, y := range []float64{0, 0.5} {
		p := ps[2+i]
		want := fmt.Sprintf("%.1f", c.YScale(y))
		for _, cmd := range strings.Split(p.D, " L") {
			if f := strings.Fields(cmd); f[len(f)-1] != want {
				t.Errorf("series %d: vertex %q not at y=%s", i, cmd, want)
			}
		}
		if !strings.Contains(strings.Join(p.Attrs, " "), "marker-mid") {
			t.Errorf("series %d has no markers", i)
		}
	}
}

func TestSpikeMarkersPerContext(t *testing.T) {
	s := canvas.NewSurface(400, 400)
	a := NewContext(s, "a", Height(100), XRange(0, 10), YRange(0, 1))
	b := NewContext(s, "b", Height(300), XRange(0, 10), YRange(0, 1)).SetOffset(100)
	r := NewSpikeRenderer()
	for _, c := range []*Context{a, b} {
		trains := loaded(t, "trains-"+c.Name(), source.Series{Data: source.Float64s{1, 0.01, 2, 0.01}})
		if err := r.Render(c, []source.Source{trains}, false); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	ids := regexp.MustCompile(`<marker id="([^"]+)"`).FindAllStringSubmatch(buf.String(), -1)
	if len(ids) != 2 {
		t.Fatalf("got %d markers, want 2", len(ids))
	}
	if ids[0][1] == ids[1][1] {
		t.Errorf("both contexts define marker %q", ids[0][1])
	}

	for _, c := range []*Context{a, b} {
		m := c.Defs().Children[0].(*canvas.Marker)
		if want := math.Ceil(float64(c.Height()) * spikeHeadroom); m.H != want {
			t.Errorf("context %s: marker height is %v, want %v", c.Name(), m.H, want)
		}
		p := paths(c, r.Class())[0]
		if !strings.Contains(strings.Join(p.Attrs, " "), "url(#"+m.ID+")") {
			t.Errorf("context %s: path does not use its own marker %s", c.Name(), m.ID)
		}
	}
}

func TestSVGOnePathPerSeries(t *testing.T) {
	s := canvas.NewSurface(500, 300)
	c := NewContext(s, "ctx", XRange(0, 100), YRange(-10, 10), OnSelect(func(_, _ float64) {}))
	sig := source.NewRandomSignal(100, 10, 200, 3, nil)
	if err := sig.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := NewSignalRenderer().Render(c, []source.Source{sig}, false); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<path"); n != 3 {
		t.Errorf("got %d paths, want one per series (3)", n)
	}
}
