// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	svg "github.com/ajstarks/svgo"
)

// A Group is a <g> element.
type Group struct {
	ID        string
	Class     Class
	Transform string
	Style     string
	Attrs     []string
	Children  []Node
}

func (g *Group) Classes() Class { return g.Class }

// Append adds nodes as the last children of g.
func (g *Group) Append(nodes ...Node) {
	g.Children = append(g.Children, nodes...)
}

// AppendGroup adds and returns a new child group.
func (g *Group) AppendGroup(id string, class ...string) *Group {
	c := &Group{ID: id, Class: Class(class)}
	g.Append(c)
	return c
}

// Remove removes n from g's direct children. It reports whether n
// was found.
func (g *Group) Remove(n Node) bool {
	for i, c := range g.Children {
		if c == n {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveClass removes every descendant of g that has class name and
// returns the number of nodes removed. Descendants of removed nodes
// are not counted.
func (g *Group) RemoveClass(name string) int {
	return removeClass(&g.Children, name)
}

// FindClass returns every descendant of g that has class name, in
// document order.
func (g *Group) FindClass(name string) []Node {
	return findClass(nil, g.Children, name)
}

// Defs returns g's definitions element, creating it if necessary.
func (g *Group) Defs() *Defs {
	for _, c := range g.Children {
		if d, ok := c.(*Defs); ok {
			return d
		}
	}
	d := &Defs{}
	g.Append(d)
	return d
}

func (g *Group) write(w *svg.SVG) {
	var extra []string
	if g.Transform != "" {
		extra = append(extra, attr("transform", g.Transform))
	}
	w.Group(attrs(g.ID, g.Class, g.Style, append(extra, g.Attrs...))...)
	for _, c := range g.Children {
		c.write(w)
	}
	w.Gend()
}

// Defs is a <defs> element: a pool of reusable definitions such as
// markers.
type Defs struct {
	Children []Node
}

func (d *Defs) Classes() Class { return nil }

// Append adds nodes to the pool.
func (d *Defs) Append(nodes ...Node) {
	d.Children = append(d.Children, nodes...)
}

// RemoveClass removes every definition that has class name.
func (d *Defs) RemoveClass(name string) int {
	return removeClass(&d.Children, name)
}

// Lookup returns the definition with the given id, or nil.
func (d *Defs) Lookup(id string) Node {
	for _, c := range d.Children {
		if m, ok := c.(*Marker); ok && m.ID == id {
			return m
		}
	}
	return nil
}

func (d *Defs) write(w *svg.SVG) {
	w.Def()
	for _, c := range d.Children {
		c.write(w)
	}
	w.DefEnd()
}

func children(n Node) *[]Node {
	switch n := n.(type) {
	case *Group:
		return &n.Children
	case *Defs:
		return &n.Children
	case *Marker:
		return &n.Children
	}
	return nil
}

func removeClass(nodes *[]Node, name string) int {
	removed := 0
	kept := (*nodes)[:0]
	for _, n := range *nodes {
		if n.Classes().Has(name) {
			removed++
			continue
		}
		if sub := children(n); sub != nil {
			removed += removeClass(sub, name)
		}
		kept = append(kept, n)
	}
	// Clear the tail so removed nodes can be collected.
	for i := len(kept); i < len(*nodes); i++ {
		(*nodes)[i] = nil
	}
	*nodes = kept
	return removed
}

func findClass(out []Node, nodes []Node, name string) []Node {
	for _, n := range nodes {
		if n.Classes().Has(name) {
			out = append(out, n)
		}
		if sub := children(n); sub != nil {
			out = findClass(out, *sub, name)
		}
	}
	return out
}
