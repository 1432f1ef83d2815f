// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source provides plottable data sources.
//
// A Source owns one or more Series of interleaved (x, y) pairs. It is
// loaded once and may then be sliced any number of times to an X
// window. Each new slice replaces the previous one.
//
// Loading and slicing block until the data is available or the
// context is canceled. Callers that want concurrency run them in
// their own goroutines.
package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	// ErrNotReady is returned when data is requested from a source
	// that has not been loaded.
	ErrNotReady = errors.New("source: no data available")

	// ErrNotSliced is returned when sliced data is requested from
	// a source that has not been sliced.
	ErrNotSliced = errors.New("source: no sliced data available")
)

// A Source provides plottable data and its bounding extents.
type Source interface {
	Name() string

	// Load populates the source. It is idempotent: once loaded,
	// further calls return nil immediately.
	Load(ctx context.Context) error
	HasData() bool
	Data() ([]Series, error)
	DataBorders() (Borders, error)

	// Slice restricts the data to the X window [start, end]. It
	// returns ErrNotReady if the source is not loaded.
	Slice(ctx context.Context, start, end float64) error
	HasSliced() bool
	Sliced() ([]Series, error)
	SliceBorders() (Borders, error)
}

var sourceCount int64

// AutoName returns a fresh source name of the form "source-N".
func AutoName() string {
	return fmt.Sprintf("source-%d", atomic.AddInt64(&sourceCount, 1))
}

// Base implements the bookkeeping shared by all sources. Concrete
// sources embed it and implement Load and Slice in terms of LoadWith
// and SliceWith or SliceData.
//
// A Base must not be copied after first use.
type Base struct {
	name string

	// loadMu serializes loading and slicing so that a source is
	// never produced twice concurrently.
	loadMu sync.Mutex

	mu          sync.Mutex
	data        []Series
	sliced      []Series
	dataReady   bool
	slicedReady bool
}

// SetName sets b's name. An empty name is replaced by AutoName.
func (b *Base) SetName(name string) {
	if name == "" {
		name = AutoName()
	}
	b.name = name
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) String() string {
	return "Source: " + b.name
}

func (b *Base) HasData() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dataReady
}

func (b *Base) HasSliced() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slicedReady
}

// Data returns all loaded series.
func (b *Base) Data() ([]Series, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dataReady {
		return nil, ErrNotReady
	}
	return b.data, nil
}

func (b *Base) DataBorders() (Borders, error) {
	data, err := b.Data()
	if err != nil {
		return EmptyBorders(), err
	}
	return SeriesBorders(data), nil
}

// Sliced returns the series of the most recent slice.
func (b *Base) Sliced() ([]Series, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.slicedReady {
		return nil, ErrNotSliced
	}
	return b.sliced, nil
}

func (b *Base) SliceBorders() (Borders, error) {
	sliced, err := b.Sliced()
	if err != nil {
		return EmptyBorders(), err
	}
	return SeriesBorders(sliced), nil
}

// SetData replaces the data and marks the source ready.
func (b *Base) SetData(data []Series) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data, b.dataReady = data, true
}

// SetSliced replaces the sliced data and marks the slice ready.
func (b *Base) SetSliced(sliced []Series) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sliced, b.slicedReady = sliced, true
}

// LoadWith calls fetch to produce the source's data unless the source
// is already loaded. If fetch fails, the source stays unloaded and a
// later call will try again.
func (b *Base) LoadWith(ctx context.Context, fetch func(ctx context.Context) ([]Series, error)) error {
	b.loadMu.Lock()
	defer b.loadMu.Unlock()
	if b.HasData() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("loading %s: %w", b.name, err)
	}
	b.SetData(data)
	return nil
}

// SliceWith calls fetch to produce a new slice. The previous slice is
// invalidated before fetch runs.
func (b *Base) SliceWith(ctx context.Context, fetch func(ctx context.Context) ([]Series, error)) error {
	b.loadMu.Lock()
	defer b.loadMu.Unlock()
	if !b.HasData() {
		return ErrNotReady
	}
	b.mu.Lock()
	b.sliced, b.slicedReady = nil, false
	b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	sliced, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("slicing %s: %w", b.name, err)
	}
	b.SetSliced(sliced)
	return nil
}

// SliceData slices the loaded data in memory to [start, end]. A NaN
// start or end leaves that side of the window open.
func (b *Base) SliceData(ctx context.Context, start, end float64) error {
	return b.SliceWith(ctx, func(context.Context) ([]Series, error) {
		data, err := b.Data()
		if err != nil {
			return nil, err
		}
		return SliceSeries(data, start, end), nil
	})
}

// SliceSeries returns the pairs of every series whose X lies in
// [start, end]. The series must be sorted by X. The returned buffers
// share storage with data.
func SliceSeries(data []Series, start, end float64) []Series {
	if math.IsNaN(start) {
		start = math.Inf(-1)
	}
	if math.IsNaN(end) {
		end = math.Inf(1)
	}
	if start > end {
		start, end = end, start
	}
	out := make([]Series, len(data))
	for i, s := range data {
		out[i] = Series{Style: s.Style, Name: s.Name}
		if s.Data == nil {
			continue
		}
		n := Points(s.Data)
		lo := sort.Search(n, func(i int) bool {
			return s.Data.At(2*i) >= start
		})
		hi := sort.Search(n, func(i int) bool {
			return s.Data.At(2*i) > end
		})
		if hi < lo {
			hi = lo
		}
		out[i].Data = s.Data.Slice(2*lo, 2*hi)
	}
	return out
}
