// Copyright 2026 The crayon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ephys provides sources backed by the electrophysiology
// endpoints of a G-Node data API server.
//
// An AnalogSignal serves one sampled signal and a SpikeTrain serves
// one train of spike times. Both fetch a bounded number of points
// from the server when loaded and fetch the requested window again
// when sliced. Times are converted to seconds and signals to volts.
package ephys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/g-node/crayon/units"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrNoData is returned when a response carries no data object.
var ErrNoData = errors.New("ephys: response has no data")

// A Client fetches data from a data API server.
type Client struct {
	base string
	http *retryablehttp.Client
}

// A ClientOption configures a Client.
type ClientOption func(*retryablehttp.Client)

// WithRetryMax sets the number of times a failed request is retried.
func WithRetryMax(n int) ClientOption {
	return func(rc *retryablehttp.Client) { rc.RetryMax = n }
}

// WithRetryWait sets the bounds of the backoff between retries.
func WithRetryWait(min, max time.Duration) ClientOption {
	return func(rc *retryablehttp.Client) {
		rc.RetryWaitMin, rc.RetryWaitMax = min, max
	}
}

// WithLogger makes the client log its requests and retries to l.
func WithLogger(l *log.Logger) ClientOption {
	return func(rc *retryablehttp.Client) { rc.Logger = l }
}

// NewClient returns a client for the server at baseURL, for example
// "https://portal.g-node.org/data".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	for _, o := range opts {
		o(rc)
	}
	return &Client{base: strings.TrimSuffix(baseURL, "/"), http: rc}
}

// HTTPClient returns a standard library client that retries like c.
func (c *Client) HTTPClient() *http.Client {
	return c.http.StandardClient()
}

// window returns the query for fetching at most maxPoints points in
// [start, end]. NaN bounds are left to the server.
func window(maxPoints int, start, end float64) url.Values {
	q := url.Values{}
	q.Set("max_points", strconv.Itoa(maxPoints))
	if !math.IsNaN(start) {
		q.Set("start", strconv.FormatFloat(start, 'g', -1, 64))
	}
	if !math.IsNaN(end) {
		q.Set("end", strconv.FormatFloat(end, 'g', -1, 64))
	}
	return q
}

// getData fetches the data object of the first primary result at
// path and decodes it into v.
func (c *Client) getData(ctx context.Context, path string, q url.Values, v interface{}) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", u, resp.Status)
	}

	var body struct {
		Primary []struct {
			Data json.RawMessage `json:"data"`
		} `json:"primary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	if len(body.Primary) == 0 || len(body.Primary[0].Data) == 0 {
		return fmt.Errorf("GET %s: %w", u, ErrNoData)
	}
	if err := json.Unmarshal(body.Primary[0].Data, v); err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	return nil
}

// scalar and array are quantities with units.
type scalar struct {
	Data  float64 `json:"data"`
	Units string  `json:"units"`
}

type array struct {
	Data  []float64 `json:"data"`
	Units string    `json:"units"`
}

// factor returns the factor converting values in unit from to unit
// to. Values without units are taken to be in unit to already.
func factor(from, to string) (float64, error) {
	if from == "" || from == to {
		return 1, nil
	}
	return units.Factor(from, to)
}
