// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command crayonplot plots data sources as an SVG image.
//
// By default crayonplot plots random signals above random spike
// trains. A YAML layout file given with -config describes other
// plots:
//
//	width: 1200
//	height: 800
//	server: https://portal.g-node.org/data
//	contexts:
//	  - name: lfp
//	  - name: units
//	    yticks: 2
//	sources:
//	  - kind: analogsignal
//	    id: "1041"
//	    context: lfp
//	    color: steelblue
//	  - kind: spiketrain
//	    id: "77"
//	    context: units
//	  - kind: fixture
//	    file: trace.csv
//	    interval: 0.001
//	    context: lfp
//	select: [0.5, 1.5]
//
// Below the contexts crayonplot draws an overview of all the data.
// Selecting a range with -select (or select in the layout) zooms every
// context to that range, as dragging on the overview would.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/charmbracelet/log"
	"github.com/g-node/crayon/canvas"
	"github.com/g-node/crayon/plot"
	"golang.org/x/term"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "crayonplot"})

	var (
		flagOut     = flag.String("o", "", "write output to `file` (default: stdout)")
		flagConfig  = flag.String("config", "", "read the plot layout from YAML `file`")
		flagWidth   = flag.Int("width", 1000, "image width in pixels")
		flagHeight  = flag.Int("height", 600, "image height in pixels")
		flagSignals = flag.Int("signals", 2, "plot `n` random signals (without -config)")
		flagSpikes  = flag.Int("spikes", 3, "plot `n` random spike trains (without -config)")
		flagSeed    = flag.Int64("seed", 0, "random `seed` (default: time based)")
		flagSelect  = flag.String("select", "", "zoom to the X range `xmin,xmax`")
		flagTimeout = flag.Duration("timeout", 30*time.Second, "give up loading sources after `duration`")
		flagTable   = flag.Bool("table", false, "output a table of series statistics instead of a plot")
		flagVerbose = flag.Bool("v", false, "log debugging information")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *flagVerbose {
		logger.SetLevel(log.DebugLevel)
		plot.Logger.SetLevel(log.DebugLevel)
	}

	var layout *Layout
	if *flagConfig != "" {
		f, err := os.Open(*flagConfig)
		if err != nil {
			logger.Fatal(err)
		}
		layout, err = readLayout(f)
		f.Close()
		if err != nil {
			logger.Fatal(err, "file", *flagConfig)
		}
	} else {
		layout = defaultLayout(*flagSignals, *flagSpikes)
	}
	if layout.Width == 0 {
		layout.Width = *flagWidth
	}
	if layout.Height == 0 {
		layout.Height = *flagHeight
	}
	if *flagSelect != "" {
		sel, err := parseRange(*flagSelect)
		if err != nil {
			logger.Fatal(err)
		}
		layout.Select = sel
	}

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("plotting", "width", layout.Width, "height", layout.Height, "seed", seed)

	surface := canvas.NewSurface(layout.Width, layout.Height)
	mopts := []plot.ManagerOption{plot.WithLoadTimeout(*flagTimeout), plot.WithLogger(logger)}
	if layout.Overview > 0 {
		mopts = append(mopts, plot.WithOverviewHeight(layout.Overview))
	}
	m := plot.NewManager(surface, mopts...)
	srcs, err := layout.build(m, rand.New(rand.NewSource(seed)))
	if err != nil {
		logger.Fatal(err)
	}
	if err := m.Plot(context.Background()); err != nil {
		logger.Fatal(err)
	}
	if len(layout.Select) == 2 {
		m.Select(layout.Select[0], layout.Select[1])
	}

	// Prepare for output.
	var w io.Writer = os.Stdout
	if *flagOut != "" {
		f, err := os.Create(*flagOut)
		if err != nil {
			logger.Fatal(err)
		}
		defer f.Close()
		w = f
	} else if !*flagTable && term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Fatal("refusing to write SVG to a terminal; use -o or redirect stdout")
	}

	if *flagTable {
		tab, err := sourcesToTable(srcs, len(layout.Select) == 2)
		if err != nil {
			logger.Fatal(err)
		}
		table.Fprint(w, tab)
		return
	}
	if err := surface.WriteSVG(w); err != nil {
		logger.Fatal(err)
	}
}

// parseRange parses "xmin,xmax".
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad range %q: want xmin,xmax", s)
	}
	out := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad range %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
