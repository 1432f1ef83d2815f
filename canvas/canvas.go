// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas is a small retained-mode SVG scene.
//
// A Surface holds a tree of Groups and shapes. Shapes carry CSS
// classes so that everything drawn by one party can later be found
// and removed without disturbing the rest of the scene. The tree is
// written out as an SVG document with WriteSVG.
package canvas

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// fontSize is the font size in pixels.
const fontSize = 11

// A Class is an ordered set of CSS class names.
type Class []string

// Has reports whether c contains name.
func (c Class) Has(name string) bool {
	for _, x := range c {
		if x == name {
			return true
		}
	}
	return false
}

func (c Class) String() string {
	return strings.Join(c, " ")
}

// Add returns c with name appended if it is not already present.
func (c Class) Add(name string) Class {
	if c.Has(name) {
		return c
	}
	return append(c[:len(c):len(c)], name)
}

// Without returns c with name removed.
func (c Class) Without(name string) Class {
	out := make(Class, 0, len(c))
	for _, x := range c {
		if x != name {
			out = append(out, x)
		}
	}
	return out
}

// A Node is an element of the scene.
type Node interface {
	Classes() Class
	write(w *svg.SVG)
}

// A Surface is the root of a scene with a fixed pixel size.
type Surface struct {
	Width, Height int
	Root          *Group
}

// NewSurface returns an empty width x height surface.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height, Root: &Group{}}
}

// WriteSVG writes s as a standalone SVG document.
func (s *Surface) WriteSVG(w io.Writer) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(s.Width, s.Height, fmt.Sprintf(`font-size="%dpx" font-family="Helvetica,Arial,sans-serif"`, fontSize))
	for _, n := range s.Root.Children {
		n.write(canvas)
	}
	canvas.End()
	return ew.err
}

// errWriter remembers the first write error and drops everything
// after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// attr formats an XML attribute. svgo passes strings containing "="
// through as raw attributes.
func attr(name, value string) string {
	return name + `="` + escape(value) + `"`
}

var escaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}

// attrs collects the non-empty common attributes of an element.
func attrs(id string, class Class, style string, extra []string) []string {
	var out []string
	if id != "" {
		out = append(out, attr("id", id))
	}
	if len(class) > 0 {
		out = append(out, attr("class", class.String()))
	}
	if style != "" {
		out = append(out, attr("style", style))
	}
	return append(out, extra...)
}
