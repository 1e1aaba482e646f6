// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the region catalog, similarity queries, and the
// nearest centroid lookup over a JSON API.
package server

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/mikemoraned/geo/regions"
)

// Loader builds a fresh annotated catalog, typically by re-reading the
// configured sources.
type Loader func(ctx context.Context) (*regions.Annotated, error)

var errNoLoader = errors.New("reload is not configured")

// Server serves a read-only annotated catalog. Reloads build a new catalog
// and swap it in atomically; in-flight requests keep the one they started
// with.
type Server struct {
	current  atomic.Pointer[regions.Annotated]
	loader   Loader
	metrics  *Collector
	minScore float64

	reloadMu sync.Mutex
}

// Options configure NewServer.
type Options struct {
	Loader Loader
	// Metrics is optional; /metrics is only exposed when set.
	Metrics *Collector
	// MinScore is used when a similarity request has no min_score.
	MinScore float64
}

func NewServer(initial *regions.Annotated, opts Options) *Server {
	s := &Server{
		loader:   opts.Loader,
		metrics:  opts.Metrics,
		minScore: opts.MinScore,
	}
	s.swap(initial)

	return s
}

func (s *Server) swap(a *regions.Annotated) {
	s.current.Store(a)
	s.metrics.SetCatalogCounts(a.Catalog.Len(), a.Index.Len())
}

// Current returns the catalog being served.
func (s *Server) Current() *regions.Annotated {
	return s.current.Load()
}

// Reload builds a new catalog with the loader and serves it. On failure the
// previous catalog stays in place.
func (s *Server) Reload(ctx context.Context) (*regions.Annotated, error) {
	if s.loader == nil {
		return nil, errNoLoader
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	a, err := s.loader(ctx)
	s.metrics.ObserveReload(err)

	if err != nil {
		return nil, err
	}

	s.swap(a)
	log.Printf("Reloaded catalog: %d regions, %d signatures", a.Catalog.Len(), a.Index.Len())

	return a, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/regions", s.listRegions)
	api.GET("/regions/:id", s.getRegion)
	api.GET("/regions/:id/similar", s.similarRegions)
	api.GET("/regions/:id/rays", s.regionRays)
	api.GET("/nearest", s.nearestRegion)
	api.POST("/reload", s.reload)

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("Serving %d regions on %s", s.Current().Catalog.Len(), addr)

	return s.Router().Run(addr)
}
