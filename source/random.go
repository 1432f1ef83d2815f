// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"math"
	"math/rand"
	"sync"
)

// RandomSignal is a source of synthetic analog signals. Each signal
// is the sum of a slow sine of amplitude YMax and a faster one of at
// most a fifth of that amplitude.
type RandomSignal struct {
	Base

	xmax, ymax float64
	size, num  int

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewRandomSignal returns num random signals of size points each,
// with X in [0, xmax) and Y roughly in [-ymax, ymax]. Zero arguments
// take the defaults xmax=100, ymax=1000, size=1000, num=1. The source
// seeds its own generator from rnd when it is created and never uses
// rnd again. If rnd is nil, the seed is random.
func NewRandomSignal(xmax, ymax float64, size, num int, rnd *rand.Rand) *RandomSignal {
	s := &RandomSignal{
		xmax: orFloat(xmax, 100), ymax: orFloat(ymax, 1000),
		size: orInt(size, 1000), num: orInt(num, 1),
		rnd: newRand(rnd),
	}
	s.SetName("")
	return s
}

func (s *RandomSignal) Load(ctx context.Context) error {
	return s.LoadWith(ctx, func(context.Context) ([]Series, error) {
		s.rndMu.Lock()
		defer s.rndMu.Unlock()
		data := make([]Series, s.num)
		for i := range data {
			data[i] = s.signal()
		}
		return data, nil
	})
}

func (s *RandomSignal) signal() Series {
	r := s.rnd
	style := RandomStyle(r)
	a1, phi1 := s.ymax, r.Float64()*math.Pi
	o1 := math.Pi * ((r.Float64()*5 + 5) / s.xmax)
	a2, phi2 := r.Float64()*s.ymax/5, r.Float64()*math.Pi
	o2 := math.Pi * ((r.Float64()*50 + 50) / s.xmax)

	d := make(Float32s, 2*s.size)
	xstep := s.xmax / float64(s.size)
	for i := 0; i < s.size; i++ {
		x := float64(i) * xstep
		d[2*i] = float32(x)
		d[2*i+1] = float32(math.Sin(x*o1+phi1)*a1 + math.Sin(x*o2+phi2)*a2)
	}
	return Series{Data: d, Style: style}
}

func (s *RandomSignal) Slice(ctx context.Context, start, end float64) error {
	return s.SliceData(ctx, start, end)
}

// RandomSpikes is a source of synthetic spike trains.
type RandomSpikes struct {
	Base

	xmax      float64
	size, num int

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewRandomSpikes returns num random spike trains of size spikes
// each, with a mean spike interval of xmax/size. Zero arguments take
// the defaults xmax=100, size=1000, num=1. rnd seeds the source as
// for NewRandomSignal.
func NewRandomSpikes(xmax float64, size, num int, rnd *rand.Rand) *RandomSpikes {
	s := &RandomSpikes{
		xmax: orFloat(xmax, 100),
		size: orInt(size, 1000), num: orInt(num, 1),
		rnd: newRand(rnd),
	}
	s.SetName("")
	return s
}

func (s *RandomSpikes) Load(ctx context.Context) error {
	return s.LoadWith(ctx, func(context.Context) ([]Series, error) {
		s.rndMu.Lock()
		defer s.rndMu.Unlock()
		data := make([]Series, s.num)
		for i := range data {
			data[i] = s.train()
		}
		return data, nil
	})
}

func (s *RandomSpikes) train() Series {
	r := s.rnd
	style := RandomStyle(r) + ";stroke-opacity:0.85"
	d := make(Float32s, 2*s.size)
	xstep := s.xmax / float64(s.size) * 2
	x := 0.0
	for i := 0; i < s.size; i++ {
		x += r.Float64() * xstep
		d[2*i] = float32(x)
		d[2*i+1] = 0.01
	}
	return Series{Data: d, Style: style}
}

func (s *RandomSpikes) Slice(ctx context.Context, start, end float64) error {
	return s.SliceData(ctx, start, end)
}

func orFloat(x, def float64) float64 {
	if x == 0 {
		return def
	}
	return x
}

func orInt(x, def int) int {
	if x <= 0 {
		return def
	}
	return x
}

var (
	_ Source = (*RandomSignal)(nil)
	_ Source = (*RandomSpikes)(nil)
)
