// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephys

import (
	"context"
	"fmt"
	"math"

	"github.com/g-node/crayon/source"
)

const (
	analogMaxPoints = 1000
	spikeMaxPoints  = 10000
)

// An AnalogSignal is a source for one sampled signal. Each point is
// (time in seconds, value in volts).
type AnalogSignal struct {
	source.Base
	client *Client
	path   string
	style  string
}

// AnalogSignal returns a source for the analog signal with the given
// id. An empty name defaults to "analogsignal-<id>" and an empty
// style to a random stroke color.
func (c *Client) AnalogSignal(id, name, style string) *AnalogSignal {
	if name == "" {
		name = "analogsignal-" + id
	}
	if style == "" {
		style = source.RandomStyle(nil)
	}
	a := &AnalogSignal{client: c, path: "/electrophysiology/analogsignal/" + id, style: style}
	a.SetName(name)
	return a
}

func (a *AnalogSignal) Load(ctx context.Context) error {
	return a.LoadWith(ctx, func(ctx context.Context) ([]source.Series, error) {
		return a.fetch(ctx, math.NaN(), math.NaN())
	})
}

// Slice fetches the signal between start and end seconds. A NaN
// bound is left open.
func (a *AnalogSignal) Slice(ctx context.Context, start, end float64) error {
	return a.SliceWith(ctx, func(ctx context.Context) ([]source.Series, error) {
		return a.fetch(ctx, start, end)
	})
}

func (a *AnalogSignal) fetch(ctx context.Context, start, end float64) ([]source.Series, error) {
	var data struct {
		SamplingRate scalar `json:"sampling_rate"`
		Signal       array  `json:"signal"`
		TStart       scalar `json:"t_start"`
	}
	if err := a.client.getData(ctx, a.path, window(analogMaxPoints, start, end), &data); err != nil {
		return nil, err
	}
	rf, err := factor(data.SamplingRate.Units, "Hz")
	if err != nil {
		return nil, err
	}
	tf, err := factor(data.TStart.Units, "s")
	if err != nil {
		return nil, err
	}
	vf, err := factor(data.Signal.Units, "V")
	if err != nil {
		return nil, err
	}
	rate := data.SamplingRate.Data * rf
	if !(rate > 0) {
		return nil, fmt.Errorf("%s: bad sampling rate %v", a.Name(), data.SamplingRate.Data)
	}
	tstart := data.TStart.Data * tf

	buf := make(source.Float32s, 2*len(data.Signal.Data))
	for i, v := range data.Signal.Data {
		buf[2*i] = float32(tstart + float64(i)/rate)
		buf[2*i+1] = float32(v * vf)
	}
	return []source.Series{{Data: buf, Style: a.style, Name: a.Name()}}, nil
}

// A SpikeTrain is a source for one train of spike times. Each point
// is (time in seconds, a constant value).
type SpikeTrain struct {
	source.Base
	client *Client
	path   string
	style  string
	value  float64
}

// SpikeTrain returns a source for the spike train with the given id.
// Every spike is plotted at Y=value. An empty name defaults to
// "spiketrain-<id>" and an empty style to a random stroke color.
func (c *Client) SpikeTrain(id, name, style string, value float64) *SpikeTrain {
	if name == "" {
		name = "spiketrain-" + id
	}
	if style == "" {
		style = source.RandomStyle(nil) + ";stroke-opacity:0.85"
	}
	s := &SpikeTrain{client: c, path: "/electrophysiology/spiketrain/" + id, style: style, value: value}
	s.SetName(name)
	return s
}

func (s *SpikeTrain) Load(ctx context.Context) error {
	return s.LoadWith(ctx, func(ctx context.Context) ([]source.Series, error) {
		return s.fetch(ctx, math.NaN(), math.NaN())
	})
}

// Slice fetches the spikes between start and end seconds. A NaN
// bound is left open.
func (s *SpikeTrain) Slice(ctx context.Context, start, end float64) error {
	return s.SliceWith(ctx, func(ctx context.Context) ([]source.Series, error) {
		return s.fetch(ctx, start, end)
	})
}

func (s *SpikeTrain) fetch(ctx context.Context, start, end float64) ([]source.Series, error) {
	var data struct {
		Times array `json:"times"`
	}
	if err := s.client.getData(ctx, s.path, window(spikeMaxPoints, start, end), &data); err != nil {
		return nil, err
	}
	tf, err := factor(data.Times.Units, "s")
	if err != nil {
		return nil, err
	}
	buf := make(source.Float32s, 2*len(data.Times.Data))
	for i, t := range data.Times.Data {
		buf[2*i] = float32(t * tf)
		buf[2*i+1] = float32(s.value)
	}
	return []source.Series{{Data: buf, Style: s.style, Name: s.Name()}}, nil
}

var (
	_ source.Source = (*AnalogSignal)(nil)
	_ source.Source = (*SpikeTrain)(nil)
)
