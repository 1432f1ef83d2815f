// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fixture is a source of fixed, regularly sampled signals.
type Fixture struct {
	Base

	interval float64
	signals  [][]float64
	styles   []string
	names    []string
}

// NewFixture returns a source for signals sampled every interval,
// starting at X = 0. styles[i], if present, styles signals[i].
func NewFixture(name string, interval float64, signals [][]float64, styles []string) *Fixture {
	f := &Fixture{interval: interval, signals: signals, styles: styles}
	f.SetName(name)
	return f
}

// ReadFixture reads a fixture from CSV data with one signal per
// column. If the first record is not numeric, it names the signals.
func ReadFixture(name string, r io.Reader, interval float64) (*Fixture, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", name, err)
	}
	var names []string
	if len(records) > 0 && !numeric(records[0]) {
		names, records = records[0], records[1:]
	}
	var signals [][]float64
	for row, rec := range records {
		for col, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("reading fixture %s: row %d column %d: %w", name, row+1, col+1, err)
			}
			for len(signals) <= col {
				signals = append(signals, nil)
			}
			signals[col] = append(signals[col], v)
		}
	}
	f := NewFixture(name, interval, signals, nil)
	f.names = names
	return f, nil
}

// Signals returns the number of signals in f.
func (f *Fixture) Signals() int {
	return len(f.signals)
}

// SetStyles sets the styles of f's signals in order. It must be
// called before f is loaded.
func (f *Fixture) SetStyles(styles ...string) {
	f.styles = styles
}

func numeric(rec []string) bool {
	for _, field := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return false
		}
	}
	return true
}

func (f *Fixture) Load(ctx context.Context) error {
	return f.LoadWith(ctx, func(context.Context) ([]Series, error) {
		data := make([]Series, len(f.signals))
		for i, sig := range f.signals {
			d := make(Float64s, 2*len(sig))
			for j, y := range sig {
				d[2*j] = float64(j) * f.interval
				d[2*j+1] = y
			}
			data[i] = Series{Data: d}
			if i < len(f.styles) {
				data[i].Style = f.styles[i]
			}
			if i < len(f.names) {
				data[i].Name = f.names[i]
			}
		}
		return data, nil
	})
}

func (f *Fixture) Slice(ctx context.Context, start, end float64) error {
	return f.SliceData(ctx, start, end)
}

// Static is a source that serves series given up front. It is
// useful for data computed elsewhere.
type Static struct {
	Base
	series []Series
}

// NewStatic returns a source serving series.
func NewStatic(name string, series ...Series) *Static {
	s := &Static{series: series}
	s.SetName(name)
	return s
}

func (s *Static) Load(ctx context.Context) error {
	return s.LoadWith(ctx, func(context.Context) ([]Series, error) {
		return s.series, nil
	})
}

func (s *Static) Slice(ctx context.Context, start, end float64) error {
	return s.SliceData(ctx, start, end)
}

var (
	_ Source = (*Fixture)(nil)
	_ Source = (*Static)(nil)
)
