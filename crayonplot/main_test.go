// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/g-node/crayon/canvas"
	"github.com/g-node/crayon/ephys"
	"github.com/g-node/crayon/plot"
	"github.com/g-node/crayon/source"
	"github.com/google/go-cmp/cmp"
)

func TestParseRange(t *testing.T) {
	got, err := parseRange("1.5, 20")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1.5, 20}; !cmp.Equal(want, got) {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, bad := range []string{"", "1", "1,2,3", "a,2"} {
		if _, err := parseRange(bad); err == nil {
			t.Errorf("parseRange(%q) succeeded", bad)
		}
	}
}

func TestReadLayout(t *testing.T) {
	const doc = `
width: 640
height: 480
contexts:
  - name: a
  - name: b
    default: true
    yticks: 2
sources:
  - kind: random-signal
    context: a
    count: 2
select: [1, 2]
`
	l, err := readLayout(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := &Layout{
		Width:  640,
		Height: 480,
		Contexts: []ContextSpec{
			{Name: "a"},
			{Name: "b", Default: true, YTicks: 2},
		},
		Sources: []SourceSpec{{Kind: "random-signal", Context: "a", Count: 2}},
		Select:  []float64{1, 2},
	}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	for name, bad := range map[string]string{
		"unknown field": "contexts: [{name: a}]\ncolour: red\n",
		"no contexts":   "width: 10\n",
		"bad select":    "contexts: [{name: a}]\nselect: [1]\n",
	} {
		if _, err := readLayout(strings.NewReader(bad)); err == nil {
			t.Errorf("%s: readLayout succeeded", name)
		}
	}
}

func newManager(width, height int) (*plot.Manager, *canvas.Surface) {
	s := canvas.NewSurface(width, height)
	return plot.NewManager(s, plot.WithLogger(log.New(io.Discard))), s
}

func TestDefaultLayout(t *testing.T) {
	m, s := newManager(800, 500)
	l := defaultLayout(2, 3)
	srcs, err := l.build(m, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 2 {
		t.Fatalf("got %d sources, want 2", len(srcs))
	}
	if err := m.Plot(context.Background()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<path"); n != 5 {
		t.Errorf("got %d paths, want 5", n)
	}
	if n := strings.Count(buf.String(), "<marker"); n != 3 {
		t.Errorf("got %d markers, want 3", n)
	}
}

// rendererToken matches the per-renderer class tokens, which differ
// between runs.
var rendererToken = regexp.MustCompile(`renderer-[0-9a-f-]+`)

func plotSeed(t *testing.T, seed int64) string {
	t.Helper()
	m, s := newManager(800, 500)
	if _, err := defaultLayout(2, 3).build(m, rand.New(rand.NewSource(seed))); err != nil {
		t.Fatal(err)
	}
	if err := m.Plot(context.Background()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	return rendererToken.ReplaceAllString(buf.String(), "renderer")
}

func TestSeedReproducible(t *testing.T) {
	a, b := plotSeed(t, 42), plotSeed(t, 42)
	if a != b {
		t.Errorf("plots with the same seed differ")
	}
	if c := plotSeed(t, 43); a == c {
		t.Errorf("plots with different seeds are identical")
	}
}

func TestBuildLayout(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trace.csv")
	if err := os.WriteFile(csvPath, []byte("a,b\n1,4\n2,5\n3,6\n"), 0666); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/electrophysiology/spiketrain/9" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"primary": [{"data": {"times": {"data": [0.5, 1.5], "units": "s"}}}]}`))
	}))
	defer srv.Close()

	l := &Layout{
		Server:   srv.URL,
		Contexts: []ContextSpec{{Name: "traces"}, {Name: "units"}},
		Sources: []SourceSpec{
			{Kind: "fixture", File: csvPath, Interval: 0.5, Color: "steelblue"},
			{Kind: "spiketrain", ID: "9", Context: "units", Value: 1},
		},
	}
	m, _ := newManager(600, 400)
	srcs, err := l.build(m, rand.New(rand.NewSource(1)), ephys.WithRetryMax(0))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Plot(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := map[string][2]string{}
	for _, b := range m.Bindings() {
		got[b.Source.Name()] = [2]string{b.Context, b.Renderer}
	}
	want := map[string][2]string{
		csvPath:        {"traces", "signal"},
		"spiketrain-9": {"units", "spike"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	data, err := srcs[0].Data()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2 || data[0].Style != "stroke:rgb(70,130,180)" || data[1].Name != "b" {
		t.Errorf("fixture series are %+v", data)
	}
	// The spike train ends at 1.5 and borders are shared by all
	// contexts; maximums round up.
	if x := m.Context("traces").XMax(); x != 2 {
		t.Errorf("traces xmax is %v, want 2", x)
	}
}

func TestBuildErrors(t *testing.T) {
	for name, ss := range map[string]SourceSpec{
		"unknown kind":    {Kind: "oscilloscope"},
		"random color":    {Kind: "random-signal", Color: "red"},
		"bad color":       {Kind: "fixture", File: "x.csv", Color: "no-such-color"},
		"missing server":  {Kind: "analogsignal", ID: "1"},
		"unknown context": {Kind: "random-signal", Context: "nope"},
		"missing file":    {Kind: "fixture", File: filepath.Join(t.TempDir(), "missing.csv")},
	} {
		m, _ := newManager(400, 300)
		l := &Layout{Contexts: []ContextSpec{{Name: "a"}}, Sources: []SourceSpec{ss}}
		if _, err := l.build(m, rand.New(rand.NewSource(1))); err == nil {
			t.Errorf("%s: build succeeded", name)
		}
	}
}

func TestSourcesToTable(t *testing.T) {
	s := source.NewStatic("s",
		source.Series{Data: source.Float64s{0, 1, 1, 3}, Name: "up"},
		source.Series{Data: source.Float64s{0, 2, 1, 2, 2, 2}})
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	tab, err := sourcesToTable([]source.Source{s}, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"up", "1"}, tab.Column("series")); diff != "" {
		t.Errorf("series column mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 3}, tab.Column("points")); diff != "" {
		t.Errorf("points column mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 2}, tab.Column("mean")); diff != "" {
		t.Errorf("mean column mismatch (-want +got):\n%s", diff)
	}

	if _, err := sourcesToTable([]source.Source{s}, true); err == nil {
		t.Errorf("summarizing unsliced data succeeded")
	}
}
