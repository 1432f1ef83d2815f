// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units converts values between the metric units used for
// electrophysiology data.
package units

import (
	"errors"
	"fmt"
	"math"
)

// A Kind is a family of convertible units.
type Kind string

const (
	Time     Kind = "time"
	Signal   Kind = "signal"
	Sampling Kind = "sampling"
)

// families lists each kind's units from largest to smallest. Adjacent
// units differ by a factor of 1000.
var families = map[Kind][]string{
	Time:     {"s", "ms", "us"},
	Signal:   {"V", "mV", "uV"},
	Sampling: {"MHz", "kHz", "Hz"},
}

// ErrIncompatible is returned when converting between units of
// different kinds or unknown units.
var ErrIncompatible = errors.New("units: incompatible units")

func lookup(unit string) (Kind, int, bool) {
	for k, units := range families {
		for i, u := range units {
			if u == unit {
				return k, i, true
			}
		}
	}
	return "", 0, false
}

// KindOf returns the kind of unit. It reports false for unknown
// units.
func KindOf(unit string) (Kind, bool) {
	k, _, ok := lookup(unit)
	return k, ok
}

// Factor returns the number to multiply a value in unit from by to
// express it in unit to.
func Factor(from, to string) (float64, error) {
	fk, fi, fok := lookup(from)
	tk, ti, tok := lookup(to)
	if !fok || !tok || fk != tk {
		return 0, fmt.Errorf("%w: %q and %q", ErrIncompatible, from, to)
	}
	return math.Pow10(3 * (ti - fi)), nil
}

// Convert returns v, given in unit from, in unit to.
func Convert(v float64, from, to string) (float64, error) {
	f, err := Factor(from, to)
	if err != nil {
		return 0, err
	}
	return v * f, nil
}
