// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svgpath builds SVG path data.
package svgpath

import "strconv"

// lineWidth is the length path data lines are kept under, well
// below SVG's recommended limit of 255 characters.
const lineWidth = 70

// A Builder accumulates path commands. The zero value is an empty
// path.
type Builder struct {
	buf  []byte
	cmd  []byte
	prec int
	n    int
	line int // length of the last line of buf
}

// New returns a Builder that formats coordinates with prec digits
// after the decimal point.
func New(prec int) *Builder {
	return &Builder{prec: prec}
}

// MoveTo starts a new subpath at x, y.
func (b *Builder) MoveTo(x, y float64) {
	b.add('M', x, y)
}

// LineTo draws a line from the current point to x, y.
func (b *Builder) LineTo(x, y float64) {
	b.add('L', x, y)
}

// Point extends a polyline: the first point moves, every later point
// draws a line.
func (b *Builder) Point(x, y float64) {
	if b.n == 0 {
		b.MoveTo(x, y)
	} else {
		b.LineTo(x, y)
	}
}

// add appends one command. Commands are separated by a space, or by
// a newline when the command would not fit on the current line.
func (b *Builder) add(c byte, x, y float64) {
	b.cmd = append(b.cmd[:0], c)
	b.cmd = strconv.AppendFloat(b.cmd, x, 'f', b.prec, 64)
	b.cmd = append(b.cmd, ' ')
	b.cmd = strconv.AppendFloat(b.cmd, y, 'f', b.prec, 64)

	if len(b.buf) > 0 {
		if b.line+1+len(b.cmd) > lineWidth {
			b.buf = append(b.buf, '\n')
			b.line = 0
		} else {
			b.buf = append(b.buf, ' ')
			b.line++
		}
	}
	b.buf = append(b.buf, b.cmd...)
	b.line += len(b.cmd)
	b.n++
}

// Len returns the number of commands in the path.
func (b *Builder) Len() int {
	return b.n
}

// String returns the path data. Lines break only between commands.
func (b *Builder) String() string {
	return string(b.buf)
}
