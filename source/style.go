// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"fmt"
	"image/color"
	"math/rand"
	"strings"

	"github.com/aclements/go-gg/palette"
	"golang.org/x/image/colornames"
)

// strokes is the gradient random series colors are drawn from. The
// stops are far enough apart that neighboring draws stay
// distinguishable.
var strokes = palette.RGBGradient{
	Colors: []color.RGBA{
		{0x1f, 0x77, 0xb4, 0xff},
		{0x2c, 0xa0, 0x2c, 0xff},
		{0xbc, 0xbd, 0x22, 0xff},
		{0xff, 0x7f, 0x0e, 0xff},
		{0xd6, 0x27, 0x28, 0xff},
		{0x94, 0x67, 0xbd, 0xff},
		{0x17, 0xbe, 0xcf, 0xff},
	},
}

// RandomStyle returns a stroke style with a color picked using rnd,
// or the global generator if rnd is nil.
func RandomStyle(rnd *rand.Rand) string {
	var x float64
	if rnd != nil {
		x = rnd.Float64()
	} else {
		x = rand.Float64()
	}
	return StrokeStyle(strokes.Map(x))
}

// StrokeStyle returns an SVG style that strokes with c.
func StrokeStyle(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("stroke:rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
}

// ColorStyle returns a stroke style for the SVG color keyword name,
// such as "steelblue".
func ColorStyle(name string) (string, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown color %q", name)
	}
	return StrokeStyle(c), nil
}

// newRand returns a generator owned by one source. It is seeded from
// rnd, or from the global generator if rnd is nil, so sources built
// from one seeded rnd are reproducible however their loads
// interleave.
func newRand(rnd *rand.Rand) *rand.Rand {
	if rnd != nil {
		return rand.New(rand.NewSource(rnd.Int63()))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}
