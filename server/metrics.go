// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of the region API.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec
	Reloads   *prometheus.CounterVec

	Regions    prometheus.Gauge
	Signatures prometheus.Gauge
}

// NewCollector registers the API metrics against reg, defaulting to the
// global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_http_requests_total",
		Help: "Total number of handled API requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"}))
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geo_http_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"}))
	if err != nil {
		return nil, err
	}

	reloads, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_reloads_total",
		Help: "Catalog reloads, labeled by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	regionCount, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geo_catalog_regions",
		Help: "Number of regions in the served catalog.",
	}))
	if err != nil {
		return nil, err
	}

	signatureCount, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geo_catalog_signatures",
		Help: "Number of regions with a signature in the served catalog.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:   gatherer,
		Requests:   requests,
		Durations:  durations,
		Reloads:    reloads,
		Regions:    regionCount,
		Signatures: signatureCount,
	}, nil
}

// register returns the already registered collector when an equivalent one
// exists, so several servers can share a registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}

			var zero C

			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}

		var zero C

		return zero, err
	}

	return c, nil
}

// Middleware records request counts and durations per matched route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		if c == nil {
			return
		}

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		c.Requests.WithLabelValues(route, method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.Durations.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the gathered metrics.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetCatalogCounts updates the catalog gauges.
func (c *Collector) SetCatalogCounts(regions, signatures int) {
	if c == nil {
		return
	}

	c.Regions.Set(float64(regions))
	c.Signatures.Set(float64(signatures))
}

// ObserveReload counts a reload attempt.
func (c *Collector) ObserveReload(err error) {
	if c == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	c.Reloads.WithLabelValues(result).Inc()
}
