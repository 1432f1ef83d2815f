// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"github.com/g-node/crayon/source"
)

// An Option configures a Context. Options only touch the settings
// they name, so any subset may be applied at once.
type Option func(*settings)

// settings is a partial Context configuration.
type settings struct {
	width, height, padding *int
	xmin, xmax, ymin, ymax *float64
	xticks, yticks         *int

	onselect    func(xmin, xmax float64)
	hasOnselect bool

	isDefault bool
}

func (s *settings) apply(opts []Option) {
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
}

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

// Width sets the pixel width of a context.
func Width(px int) Option { return func(s *settings) { s.width = intp(px) } }

// Height sets the pixel height of a context.
func Height(px int) Option { return func(s *settings) { s.height = intp(px) } }

// Padding sets the space around a context's plotting area.
func Padding(px int) Option { return func(s *settings) { s.padding = intp(px) } }

// XMin sets the lower bound of the X range. It is rounded down.
func XMin(v float64) Option { return func(s *settings) { s.xmin = floatp(v) } }

// XMax sets the upper bound of the X range. It is rounded up.
func XMax(v float64) Option { return func(s *settings) { s.xmax = floatp(v) } }

// YMin sets the lower bound of the Y range. It is rounded down.
func YMin(v float64) Option { return func(s *settings) { s.ymin = floatp(v) } }

// YMax sets the upper bound of the Y range. It is rounded up.
func YMax(v float64) Option { return func(s *settings) { s.ymax = floatp(v) } }

// XRange sets both bounds of the X range.
func XRange(min, max float64) Option {
	return func(s *settings) { s.xmin, s.xmax = floatp(min), floatp(max) }
}

// YRange sets both bounds of the Y range.
func YRange(min, max float64) Option {
	return func(s *settings) { s.ymin, s.ymax = floatp(min), floatp(max) }
}

// XTicks sets the maximum number of X axis ticks.
func XTicks(n int) Option { return func(s *settings) { s.xticks = intp(n) } }

// YTicks sets the maximum number of Y axis ticks.
func YTicks(n int) Option { return func(s *settings) { s.yticks = intp(n) } }

// OnSelect sets the function called when the user selects a new X
// range with the context's brush. A nil function removes the brush.
func OnSelect(fn func(xmin, xmax float64)) Option {
	return func(s *settings) { s.onselect, s.hasOnselect = fn, true }
}

// WithBorders sets both ranges to the extent b. Empty borders leave
// the ranges unchanged.
func WithBorders(b source.Borders) Option {
	return func(s *settings) {
		if b.IsEmpty() {
			return
		}
		s.xmin, s.xmax = floatp(b.XMin), floatp(b.XMax)
		s.ymin, s.ymax = floatp(b.YMin), floatp(b.YMax)
	}
}

// Default marks a context as the default target of a Manager. It has
// no effect on a Context by itself.
func Default() Option { return func(s *settings) { s.isDefault = true } }
