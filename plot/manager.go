// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/g-node/crayon/canvas"
	"github.com/g-node/crayon/source"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownContext is returned when a binding names a context
	// the Manager does not have.
	ErrUnknownContext = errors.New("plot: unknown context")

	// ErrUnknownRenderer is returned when a binding names a
	// renderer the Manager does not have.
	ErrUnknownRenderer = errors.New("plot: unknown renderer")

	// ErrInvalidSource is returned when a binding is given a nil
	// source or one whose dynamic type cannot be compared.
	ErrInvalidSource = errors.New("plot: invalid source")

	// ErrSuperseded is returned by a plot cycle that was overtaken
	// by a newer one before it could draw.
	ErrSuperseded = errors.New("plot: superseded by a newer plot")
)

// OverviewName is the name of a Manager's overview context.
const OverviewName = "select"

const defaultOverviewHeight = 100

// A Binding ties a source to the context and renderer that draw it.
// Sources are compared by identity, so they must be of comparable
// types, such as pointers. AddSource rejects any other source.
type Binding struct {
	Source   source.Source
	Context  string
	Renderer string
}

// A ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithOverviewHeight sets the pixel height of the overview context.
func WithOverviewHeight(px int) ManagerOption {
	return func(m *Manager) { m.overviewHeight = px }
}

// WithLoadTimeout bounds how long a plot cycle waits for its sources.
// Zero means no limit.
func WithLoadTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.timeout = d }
}

// WithLogger sets the logger a Manager reports to.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// A Manager lays out contexts on a surface and plots bound sources
// onto them.
//
// Contexts share the surface height above the overview context
// equally and are stacked in creation order. The overview spans the
// full width at the bottom; selecting a range on it calls PlotSlice.
//
// A Manager is safe for concurrent use. Plot and PlotSlice may be
// called while an earlier cycle is in flight; the earlier cycle is
// canceled and draws nothing.
type Manager struct {
	surface        *canvas.Surface
	overviewHeight int
	timeout        time.Duration
	log            *log.Logger

	// fetchMu serializes the loading and slicing phases of cycles
	// so that a stale cycle cannot re-slice sources under a newer
	// one.
	fetchMu sync.Mutex

	mu        sync.Mutex
	overview  *Context
	contexts  map[string]*Context
	order     []string
	def       string
	renderers map[string]Renderer
	bindings  []Binding

	borders   source.Borders
	bordersOK bool
	version   uint64 // bumped on every binding change

	gen    uint64
	cancel context.CancelFunc
}

// NewManager returns a Manager drawing onto s.
func NewManager(s *canvas.Surface, opts ...ManagerOption) *Manager {
	m := &Manager{
		surface:        s,
		overviewHeight: defaultOverviewHeight,
		log:            Logger,
		contexts:       make(map[string]*Context),
		renderers:      make(map[string]Renderer),
	}
	for _, o := range opts {
		o(m)
	}
	m.overview = NewContext(s, OverviewName,
		Width(s.Width), Height(m.overviewHeight), YTicks(2), OnSelect(m.onSelect))
	m.overview.SetOffset(s.Height - m.overviewHeight)
	return m
}

// onSelect plots the range selected on the overview.
func (m *Manager) onSelect(xmin, xmax float64) {
	err := m.PlotSlice(context.Background(), xmin, xmax)
	switch {
	case errors.Is(err, ErrSuperseded):
		m.log.Debug("selection superseded", "xmin", xmin, "xmax", xmax)
	case err != nil:
		m.log.Warn("plotting selection", "xmin", xmin, "xmax", xmax, "err", err)
	}
}

// Select selects [xmin, xmax] on the overview context as if the user
// had brushed it, re-plotting the sliced data if the selection
// changed.
func (m *Manager) Select(xmin, xmax float64) {
	m.overview.BrushEnd(xmin, xmax)
}

// Overview returns the overview context.
func (m *Manager) Overview() *Context { return m.overview }

// Context returns the context called name, or nil.
func (m *Manager) Context(name string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contexts[name]
}

// Contexts returns the contexts in creation order. The overview is
// not included.
func (m *Manager) Contexts() []*Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Context, len(m.order))
	for i, name := range m.order {
		out[i] = m.contexts[name]
	}
	return out
}

// DefaultContext returns the default context, or nil if there are no
// contexts.
func (m *Manager) DefaultContext() *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contexts[m.def]
}

// CreateContext creates a context called name and re-splits the
// surface among all contexts. The first context, or one created with
// the Default option, becomes the default context. An empty or
// existing name creates nothing; CreateContext returns the existing
// context, if any, and false.
func (m *Manager) CreateContext(name string, opts ...Option) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" || name == OverviewName {
		return nil, false
	}
	if c, ok := m.contexts[name]; ok {
		return c, false
	}

	for _, c := range m.contexts {
		c.Clear()
	}
	heights := m.split(len(m.order) + 1)
	opts = append(opts[:len(opts):len(opts)], Width(m.surface.Width), Height(heights[len(heights)-1]))
	c := NewContext(m.surface, name, opts...)
	m.contexts[name] = c
	m.order = append(m.order, name)

	var set settings
	set.apply(opts)
	if m.def == "" || set.isDefault {
		m.def = name
	}
	m.layoutLocked(heights)
	m.log.Debug("created context", "name", name, "contexts", len(m.order))
	return c, true
}

// RemoveContext removes the context called name together with every
// binding that references it, and re-splits the surface among the
// remaining contexts. The default context cannot be removed.
func (m *Manager) RemoveContext(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contexts[name]
	if !ok {
		return false
	}
	if name == m.def {
		m.log.Debug("refusing to remove default context", "name", name)
		return false
	}

	m.surface.Root.Remove(c.Group())
	delete(m.contexts, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.dropBindingsLocked(func(b Binding) bool { return b.Context == name })
	m.layoutLocked(m.split(len(m.order)))
	return true
}

// split divides the height above the overview into n integer
// heights that sum to it exactly.
func (m *Manager) split(n int) []int {
	if n == 0 {
		return nil
	}
	avail := m.surface.Height - m.overviewHeight
	if avail < 0 {
		avail = 0
	}
	heights := make([]int, n)
	for i := range heights {
		heights[i] = avail / n
		if i < avail%n {
			heights[i]++
		}
	}
	return heights
}

// layoutLocked stacks the contexts with the given heights.
func (m *Manager) layoutLocked(heights []int) {
	y := 0
	for i, name := range m.order {
		c := m.contexts[name]
		if c.Height() != heights[i] {
			c.SetHeight(heights[i])
		}
		c.SetOffset(y)
		y += heights[i]
	}
}

// Renderer returns the renderer called name, or nil.
func (m *Manager) Renderer(name string) Renderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderers[name]
}

// AddRenderer registers r under name. It reports false, and does
// nothing, if name is empty or taken.
func (m *Manager) AddRenderer(name string, r Renderer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" || r == nil {
		return false
	}
	if _, ok := m.renderers[name]; ok {
		return false
	}
	m.renderers[name] = r
	return true
}

// RemoveRenderer unregisters the renderer called name and removes
// every binding that references it.
func (m *Manager) RemoveRenderer(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.renderers[name]; !ok {
		return false
	}
	delete(m.renderers, name)
	m.dropBindingsLocked(func(b Binding) bool { return b.Renderer == name })
	return true
}

// AddSource binds src to a context and a renderer, both of which must
// already exist. An empty context name means the default context.
// Binding the same source to the same pair twice has no effect.
func (m *Manager) AddSource(src source.Source, contextName, rendererName string) error {
	if err := checkSource(src); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if contextName == "" {
		contextName = m.def
	}
	if _, ok := m.contexts[contextName]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownContext, contextName)
	}
	if _, ok := m.renderers[rendererName]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownRenderer, rendererName)
	}
	b := Binding{Source: src, Context: contextName, Renderer: rendererName}
	for _, have := range m.bindings {
		if have == b {
			return nil
		}
	}
	m.bindings = append(m.bindings, b)
	m.invalidateLocked()
	return nil
}

// checkSource reports whether src can be bound: it must be non-nil
// and usable as a map key.
func checkSource(src source.Source) error {
	if src == nil {
		return fmt.Errorf("%w: nil", ErrInvalidSource)
	}
	v := reflect.ValueOf(src)
	if !v.Type().Comparable() {
		return fmt.Errorf("%w: %s is not comparable", ErrInvalidSource, v.Type())
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Errorf("%w: nil %s", ErrInvalidSource, v.Type())
	}
	return nil
}

// RemoveSource removes every binding of the source called name and
// returns how many were removed.
func (m *Manager) RemoveSource(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropBindingsLocked(func(b Binding) bool { return b.Source.Name() == name })
}

func (m *Manager) dropBindingsLocked(drop func(Binding) bool) int {
	kept := m.bindings[:0]
	for _, b := range m.bindings {
		if !drop(b) {
			kept = append(kept, b)
		}
	}
	n := len(m.bindings) - len(kept)
	for i := len(kept); i < len(m.bindings); i++ {
		m.bindings[i] = Binding{}
	}
	m.bindings = kept
	if n > 0 {
		m.invalidateLocked()
	}
	return n
}

func (m *Manager) invalidateLocked() {
	m.bordersOK = false
	m.version++
}

// Bindings returns the current bindings in the order they were added.
func (m *Manager) Bindings() []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Binding(nil), m.bindings...)
}

// Borders returns the cached extent of all bound sources. It reports
// false if no Plot has computed it since the bindings last changed.
func (m *Manager) Borders() (source.Borders, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.borders, m.bordersOK
}

// Plot loads every bound source and, once all of them are loaded,
// ranges every context, including the overview, to their combined
// extent and draws them.
func (m *Manager) Plot(ctx context.Context) error {
	return m.cycle(ctx, false, 0, 0)
}

// PlotSlice slices every bound source to [xmin, xmax] and, once all
// of them are sliced, ranges every context except the overview to
// the extent of the slices and draws them.
func (m *Manager) PlotSlice(ctx context.Context, xmin, xmax float64) error {
	return m.cycle(ctx, true, xmin, xmax)
}

func (m *Manager) cycle(ctx context.Context, sliced bool, xmin, xmax float64) error {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	version := m.version
	bindings := append([]Binding(nil), m.bindings...)
	m.mu.Unlock()
	defer cancel()

	srcs := distinctSources(bindings)
	m.log.Debug("plot cycle", "generation", gen, "sources", len(srcs), "sliced", sliced)

	m.fetchMu.Lock()
	err := m.fetch(ctx, srcs, sliced, xmin, xmax)
	m.fetchMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		m.log.Debug("discarding stale plot cycle", "generation", gen, "current", m.gen)
		return ErrSuperseded
	}
	if err != nil {
		return err
	}

	var b source.Borders
	switch {
	case sliced:
		b, err = unionBorders(srcs, source.Source.SliceBorders)
	case m.bordersOK:
		b = m.borders
	default:
		b, err = unionBorders(srcs, source.Source.DataBorders)
		if err == nil && version == m.version {
			m.borders, m.bordersOK = b, true
		}
	}
	if err != nil {
		return err
	}

	for _, name := range m.order {
		m.contexts[name].Clear().Options(WithBorders(b))
	}
	if !sliced {
		m.overview.Clear().Options(WithBorders(b))
	}

	var errs []error
	for _, g := range m.groupLocked(bindings) {
		if err := g.renderer.Render(g.context, g.sources, sliced); err != nil {
			m.log.Warn("render failed", "context", g.context.Name(), "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fetch loads or slices srcs concurrently and waits for all of them.
// Sources are loaded before they are sliced.
func (m *Manager) fetch(ctx context.Context, srcs []source.Source, sliced bool, xmin, xmax float64) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range srcs {
		src := src
		g.Go(func() error {
			err := src.Load(gctx)
			if err == nil && sliced {
				err = src.Slice(gctx, xmin, xmax)
			}
			if err != nil && gctx.Err() == nil {
				m.log.Warn("source failed", "source", src.Name(), "err", err)
			}
			return err
		})
	}
	return g.Wait()
}

func distinctSources(bindings []Binding) []source.Source {
	seen := make(map[source.Source]bool)
	var out []source.Source
	for _, b := range bindings {
		if !seen[b.Source] {
			seen[b.Source] = true
			out = append(out, b.Source)
		}
	}
	return out
}

func unionBorders(srcs []source.Source, borders func(source.Source) (source.Borders, error)) (source.Borders, error) {
	b := source.EmptyBorders()
	for _, src := range srcs {
		sb, err := borders(src)
		if err != nil {
			return b, fmt.Errorf("%s: %w", src.Name(), err)
		}
		b = b.Union(sb)
	}
	return b, nil
}

// A renderGroup is the set of sources one renderer draws on one
// context.
type renderGroup struct {
	renderer Renderer
	context  *Context
	sources  []source.Source
}

// groupLocked groups bindings by renderer and context in the order
// each pair first appears. Bindings whose renderer or context has
// been removed since they were snapshot are skipped.
func (m *Manager) groupLocked(bindings []Binding) []*renderGroup {
	type key struct{ renderer, context string }
	index := make(map[key]*renderGroup)
	var groups []*renderGroup
	for _, b := range bindings {
		r, c := m.renderers[b.Renderer], m.contexts[b.Context]
		if r == nil || c == nil {
			m.log.Debug("skipping binding", "source", b.Source.Name(), "context", b.Context, "renderer", b.Renderer)
			continue
		}
		k := key{b.Renderer, b.Context}
		g := index[k]
		if g == nil {
			g = &renderGroup{renderer: r, context: c}
			index[k] = g
			groups = append(groups, g)
		}
		if !containsSource(g.sources, b.Source) {
			g.sources = append(g.sources, b.Source)
		}
	}
	return groups
}

func containsSource(srcs []source.Source, s source.Source) bool {
	for _, x := range srcs {
		if x == s {
			return true
		}
	}
	return false
}
