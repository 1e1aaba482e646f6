// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils builds the HTTP clients used to fetch remote boundary files.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

const (
	maxTraceLines = 64
	maxTraceChars = 256
)

// TracingRoundTripper writes an abbreviated dump of every exchange to Writer.
// GeoJSON payloads are large, so only the first lines are kept.
type TracingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
}

func trace(w io.Writer, dump []byte, prefix string) error {
	lines := strings.Split(string(dump), "\n")

	truncated := len(lines) > maxTraceLines
	if truncated {
		lines = lines[:maxTraceLines]
	}

	var b strings.Builder

	for _, line := range lines {
		if len(line) > maxTraceChars {
			line = line[:maxTraceChars] + "…"
		}

		b.WriteString(prefix + line + "\n")
	}

	if truncated {
		b.WriteString(prefix + "…\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *TracingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, false)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := trace(t.Writer, dump, "> "); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, false)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if _, err := fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", time.Since(start)); err != nil {
		return nil, err
	}

	if err := trace(t.Writer, dump, "< "); err != nil {
		return nil, err
	}

	return resp, nil
}

// HeadersRoundTripper sets fixed headers on every request.
type HeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *HeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// ClientOptions configure NewClient.
type ClientOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Trace, when set, receives a dump of each request and response.
	Trace io.Writer
}

// NewClient returns a client that identifies itself with the configured
// user agent and optionally traces its traffic.
func NewClient(opts ClientOptions) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport

	transport = &TracingRoundTripper{Transport: transport, Writer: opts.Trace}

	if opts.UserAgent != "" {
		transport = &HeadersRoundTripper{
			Transport: transport,
			Headers:   map[string]string{"User-Agent": opts.UserAgent},
		}
	}

	return &http.Client{Transport: transport, Timeout: opts.Timeout}
}
