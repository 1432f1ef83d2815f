// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ephys

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/g-node/crayon/source"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// server is a fake data API. It records the query of each request.
type server struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
	fail    int // number of requests to fail with 503
}

func newServer(t *testing.T, routes map[string]string) *server {
	s := new(server)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.queries = append(s.queries, r.URL.Query())
		fail := s.fail > 0
		if fail {
			s.fail--
		}
		s.mu.Unlock()
		if fail {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *server) Queries() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.queries...)
}

func (s *server) client() *Client {
	return NewClient(s.URL+"/", WithRetryMax(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))
}

const analogBody = `{"primary": [{"data": {
	"sampling_rate": {"data": 2, "units": "kHz"},
	"t_start": {"data": 100, "units": "ms"},
	"signal": {"data": [1, -2, 3], "units": "mV"}
}}]}`

const spikeBody = `{"primary": [{"data": {
	"times": {"data": [5, 10, 250], "units": "ms"}
}}]}`

func values(t *testing.T, series []source.Series) []float64 {
	t.Helper()
	if len(series) != 1 {
		t.Fatalf("got %d series, want 1", len(series))
	}
	var out []float64
	for i := 0; i < series[0].Data.Len(); i++ {
		out = append(out, series[0].Data.At(i))
	}
	return out
}

var approx = cmpopts.EquateApprox(1e-6, 1e-9)

func TestAnalogSignal(t *testing.T) {
	srv := newServer(t, map[string]string{"/electrophysiology/analogsignal/42": analogBody})
	a := srv.client().AnalogSignal("42", "", "stroke:red")
	if a.Name() != "analogsignal-42" {
		t.Errorf("default name is %q", a.Name())
	}
	if err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := a.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.1, 0.001, 0.1005, -0.002, 0.101, 0.003}
	if diff := cmp.Diff(want, values(t, data), approx); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if data[0].Style != "stroke:red" {
		t.Errorf("style is %q", data[0].Style)
	}
	if q := srv.Queries()[0]; q.Get("max_points") != "1000" || q.Has("start") || q.Has("end") {
		t.Errorf("load query is %v", q)
	}

	// Loading again does not refetch.
	if err := a.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := len(srv.Queries()); n != 1 {
		t.Errorf("made %d requests, want 1", n)
	}
}

func TestSliceRefetches(t *testing.T) {
	srv := newServer(t, map[string]string{"/electrophysiology/spiketrain/7": spikeBody})
	s := srv.client().SpikeTrain("7", "unit 7", "", 0.5)
	ctx := context.Background()
	if err := s.Slice(ctx, 0, 1); !errors.Is(err, source.ErrNotReady) {
		t.Errorf("slicing before load: got %v, want ErrNotReady", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Slice(ctx, 0, 0.25); err != nil {
		t.Fatal(err)
	}
	sliced, err := s.Sliced()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.005, 0.5, 0.01, 0.5, 0.25, 0.5}
	if diff := cmp.Diff(want, values(t, sliced), approx); diff != "" {
		t.Errorf("sliced data mismatch (-want +got):\n%s", diff)
	}

	qs := srv.Queries()
	if len(qs) != 2 {
		t.Fatalf("made %d requests, want 2", len(qs))
	}
	wantQuery := url.Values{"max_points": {"10000"}, "start": {"0"}, "end": {"0.25"}}
	if diff := cmp.Diff(wantQuery, qs[1]); diff != "" {
		t.Errorf("slice query mismatch (-want +got):\n%s", diff)
	}

	if err := s.Slice(ctx, math.NaN(), 1); err != nil {
		t.Fatal(err)
	}
	if q := srv.Queries()[2]; q.Has("start") || q.Get("end") != "1" {
		t.Errorf("open slice query is %v", q)
	}
}

func TestRetry(t *testing.T) {
	srv := newServer(t, map[string]string{"/electrophysiology/spiketrain/1": spikeBody})
	srv.fail = 2
	s := srv.client().SpikeTrain("1", "", "", 0)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load with transient failures: %v", err)
	}
	if n := len(srv.Queries()); n != 3 {
		t.Errorf("made %d requests, want 3", n)
	}
}

func TestErrors(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/electrophysiology/analogsignal/empty": `{"primary": []}`,
		"/electrophysiology/analogsignal/rate":  `{"primary": [{"data": {"sampling_rate": {"data": 0}, "signal": {"data": [1]}, "t_start": {"data": 0}}}]}`,
		"/electrophysiology/analogsignal/units": `{"primary": [{"data": {"sampling_rate": {"data": 1, "units": "mV"}, "signal": {"data": [1]}, "t_start": {"data": 0}}}]}`,
	})
	c := srv.client()
	ctx := context.Background()

	a := c.AnalogSignal("missing", "", "")
	if err := a.Load(ctx); err == nil {
		t.Errorf("loading a missing signal succeeded")
	}
	if a.HasData() {
		t.Errorf("failed load left data")
	}
	if err := c.AnalogSignal("empty", "", "").Load(ctx); !errors.Is(err, ErrNoData) {
		t.Errorf("empty response: got %v, want ErrNoData", err)
	}
	if err := c.AnalogSignal("rate", "", "").Load(ctx); err == nil {
		t.Errorf("zero sampling rate accepted")
	}
	if err := c.AnalogSignal("units", "", "").Load(ctx); err == nil {
		t.Errorf("sampling rate in volts accepted")
	}
}

func TestCanceled(t *testing.T) {
	srv := newServer(t, map[string]string{"/electrophysiology/spiketrain/1": spikeBody})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.client().SpikeTrain("1", "", "", 0).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
