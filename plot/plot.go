// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot draws data sources onto scaled regions of a canvas.
//
// A Context is a rectangular region of a canvas.Surface with its own
// data ranges, axes and an optional brush for selecting an X range.
// A Renderer draws the series of one or more sources onto a Context.
// A Manager owns a set of contexts and renderers, binds sources to
// them and coordinates loading, ranging and drawing. Its overview
// context spans the bottom of the surface; selecting a range on it
// re-plots every context with sliced data.
package plot

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger reports conditions that don't prevent a plot from being
// drawn, such as sources that fail to load. Managers use it unless
// configured with WithLogger.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "crayon",
	Level:  log.WarnLevel,
})
