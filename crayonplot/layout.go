// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/g-node/crayon/ephys"
	"github.com/g-node/crayon/plot"
	"github.com/g-node/crayon/source"
	"gopkg.in/yaml.v3"
)

// A Layout describes the contexts of a plot and the sources drawn on
// them.
type Layout struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Overview int `yaml:"overview"`

	// Server is the base URL of the data API that analogsignal
	// and spiketrain sources are fetched from.
	Server string `yaml:"server"`

	Contexts []ContextSpec `yaml:"contexts"`
	Sources  []SourceSpec  `yaml:"sources"`

	// Select, if set, is the X range to select on the overview
	// after plotting.
	Select []float64 `yaml:"select"`
}

// A ContextSpec describes one context.
type ContextSpec struct {
	Name    string `yaml:"name"`
	Default bool   `yaml:"default"`
	Padding int    `yaml:"padding"`
	XTicks  int    `yaml:"xticks"`
	YTicks  int    `yaml:"yticks"`
}

// A SourceSpec describes one source and where it is drawn.
type SourceSpec struct {
	Name string `yaml:"name"`

	// Kind is one of random-signal, random-spikes, fixture,
	// analogsignal or spiketrain.
	Kind string `yaml:"kind"`

	// Context defaults to the default context. Renderer defaults
	// to "spike" for spike kinds and "signal" otherwise.
	Context  string `yaml:"context"`
	Renderer string `yaml:"renderer"`

	// Color is an SVG color keyword. Random kinds pick their own
	// colors.
	Color string `yaml:"color"`

	// Random kinds.
	Count int     `yaml:"count"`
	Size  int     `yaml:"size"`
	XMax  float64 `yaml:"xmax"`
	YMax  float64 `yaml:"ymax"`

	// Fixtures.
	File     string  `yaml:"file"`
	Interval float64 `yaml:"interval"`

	// Data API kinds.
	ID    string  `yaml:"id"`
	Value float64 `yaml:"value"`
}

// Renderer names registered with every manager.
const (
	signalRenderer = "signal"
	spikeRenderer  = "spike"
)

// readLayout parses a YAML layout.
func readLayout(r io.Reader) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if len(l.Contexts) == 0 {
		return nil, fmt.Errorf("layout has no contexts")
	}
	if len(l.Select) != 0 && len(l.Select) != 2 {
		return nil, fmt.Errorf("select must be [xmin, xmax], got %v", l.Select)
	}
	return &l, nil
}

// defaultLayout plots random signals above random spike trains.
func defaultLayout(signals, spikes int) *Layout {
	l := &Layout{}
	if signals > 0 {
		l.Contexts = append(l.Contexts, ContextSpec{Name: "signals"})
		l.Sources = append(l.Sources, SourceSpec{Kind: "random-signal", Context: "signals", Count: signals})
	}
	if spikes > 0 {
		l.Contexts = append(l.Contexts, ContextSpec{Name: "spikes", YTicks: 2})
		l.Sources = append(l.Sources, SourceSpec{Kind: "random-spikes", Context: "spikes", Count: spikes})
	}
	return l
}

// build creates l's contexts on m and binds its sources. Random
// sources draw from rnd.
func (l *Layout) build(m *plot.Manager, rnd *rand.Rand, clientOpts ...ephys.ClientOption) ([]source.Source, error) {
	m.AddRenderer(signalRenderer, plot.NewSignalRenderer())
	m.AddRenderer(spikeRenderer, plot.NewSpikeRenderer())

	for _, cs := range l.Contexts {
		var opts []plot.Option
		if cs.Default {
			opts = append(opts, plot.Default())
		}
		if cs.Padding > 0 {
			opts = append(opts, plot.Padding(cs.Padding))
		}
		if cs.XTicks > 0 {
			opts = append(opts, plot.XTicks(cs.XTicks))
		}
		if cs.YTicks > 0 {
			opts = append(opts, plot.YTicks(cs.YTicks))
		}
		if _, ok := m.CreateContext(cs.Name, opts...); !ok {
			return nil, fmt.Errorf("cannot create context %q", cs.Name)
		}
	}

	var client *ephys.Client
	var srcs []source.Source
	for i, ss := range l.Sources {
		if (ss.Kind == "analogsignal" || ss.Kind == "spiketrain") && client == nil {
			if l.Server == "" {
				return nil, fmt.Errorf("source %d: %s needs a server", i+1, ss.Kind)
			}
			client = ephys.NewClient(l.Server, clientOpts...)
		}
		src, err := ss.source(rnd, client)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
		r := ss.Renderer
		if r == "" {
			r = signalRenderer
			if strings.Contains(ss.Kind, "spike") {
				r = spikeRenderer
			}
		}
		if err := m.AddSource(src, ss.Context, r); err != nil {
			return nil, fmt.Errorf("source %d: %w", i+1, err)
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}

func (ss *SourceSpec) source(rnd *rand.Rand, client *ephys.Client) (source.Source, error) {
	style := ""
	if ss.Color != "" {
		if strings.HasPrefix(ss.Kind, "random-") {
			return nil, fmt.Errorf("%s sources pick their own colors", ss.Kind)
		}
		var err error
		if style, err = source.ColorStyle(ss.Color); err != nil {
			return nil, err
		}
	}

	switch ss.Kind {
	case "random-signal":
		s := source.NewRandomSignal(ss.XMax, ss.YMax, ss.Size, ss.Count, rnd)
		if ss.Name != "" {
			s.SetName(ss.Name)
		}
		return s, nil

	case "random-spikes":
		s := source.NewRandomSpikes(ss.XMax, ss.Size, ss.Count, rnd)
		if ss.Name != "" {
			s.SetName(ss.Name)
		}
		return s, nil

	case "fixture":
		if ss.File == "" {
			return nil, fmt.Errorf("fixture needs a file")
		}
		f, err := os.Open(ss.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		interval := ss.Interval
		if interval == 0 {
			interval = 1
		}
		name := ss.Name
		if name == "" {
			name = ss.File
		}
		fix, err := source.ReadFixture(name, f, interval)
		if err != nil {
			return nil, err
		}
		if style != "" {
			fix.SetStyles(repeat(style, fix.Signals())...)
		}
		return fix, nil

	case "analogsignal":
		if ss.ID == "" {
			return nil, fmt.Errorf("analogsignal needs an id")
		}
		return client.AnalogSignal(ss.ID, ss.Name, style), nil

	case "spiketrain":
		if ss.ID == "" {
			return nil, fmt.Errorf("spiketrain needs an id")
		}
		return client.SpikeTrain(ss.ID, ss.Name, style, ss.Value), nil
	}
	return nil, fmt.Errorf("unknown kind %q", ss.Kind)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
