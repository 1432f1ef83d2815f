// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/g-node/crayon/source"
)

// sourcesToTable summarizes every series of srcs, one row per series.
// If sliced is true, it summarizes the sliced data.
func sourcesToTable(srcs []source.Source, sliced bool) (*table.Table, error) {
	var (
		names, series          []string
		points                 []int
		xmin, xmax, ymin, ymax []float64
		means, stddevs         []float64
	)
	for _, src := range srcs {
		var data []source.Series
		var err error
		if sliced {
			data, err = src.Sliced()
		} else {
			data, err = src.Data()
		}
		if err != nil {
			return nil, err
		}
		for i, s := range data {
			n := source.Points(s.Data)
			ys := make([]float64, n)
			for j := range ys {
				_, ys[j] = source.Point(s.Data, j)
			}
			label := s.Name
			if label == "" {
				label = strconv.Itoa(i)
			}
			b := source.SeriesBorders(data[i : i+1])

			names = append(names, src.Name())
			series = append(series, label)
			points = append(points, n)
			xmin = append(xmin, b.XMin)
			xmax = append(xmax, b.XMax)
			ymin = append(ymin, b.YMin)
			ymax = append(ymax, b.YMax)
			means = append(means, stats.Mean(ys))
			stddevs = append(stddevs, stats.StdDev(ys))
		}
	}

	tab := new(table.Builder).
		Add("source", names).
		Add("series", series).
		Add("points", points).
		Add("xmin", xmin).
		Add("xmax", xmax).
		Add("ymin", ymin).
		Add("ymax", ymax).
		Add("mean", means).
		Add("stddev", stddevs)
	return tab.Done(), nil
}
