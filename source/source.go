// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package source loads named groups of boundary polygons from GeoJSON files,
// HTTP endpoints, and DuckDB queries.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/mikemoraned/geo/regions"
	"github.com/paulmach/orb"
)

// RegionSource produces the polygons of one region group.
type RegionSource interface {
	Name() string
	Load(ctx context.Context) ([]orb.Polygon, error)
}

// ParseOptions supplies the shared resources sources may need.
type ParseOptions struct {
	Client *http.Client
	DB     *sql.DB
}

var errMissingName = errors.New("expected name=location")

// Parse builds a source from a "name=location" definition. The location is
// an http(s) URL, a "duckdb:" prefixed query, or a path to a GeoJSON file.
func Parse(definition string, opts ParseOptions) (RegionSource, error) {
	name, location, ok := strings.Cut(definition, "=")

	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	if !ok || name == "" || location == "" {
		return nil, fmt.Errorf("invalid source %q: %w", definition, errMissingName)
	}

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		client := opts.Client
		if client == nil {
			client = http.DefaultClient
		}

		return &HTTPSource{GroupName: name, URL: location, Client: client}, nil
	case strings.HasPrefix(location, "duckdb:"):
		if opts.DB == nil {
			return nil, fmt.Errorf("source %q: a database is required for duckdb queries", name)
		}

		query := strings.TrimSpace(strings.TrimPrefix(location, "duckdb:"))

		return &DuckDBSource{
			GroupName:   name,
			DB:          opts.DB,
			Query:       query,
			LoadSpatial: strings.Contains(strings.ToUpper(query), "ST_"),
		}, nil
	default:
		return &FileSource{GroupName: name, Path: location}, nil
	}
}

// ParseAll parses every definition, failing on the first invalid one.
func ParseAll(definitions []string, opts ParseOptions) ([]RegionSource, error) {
	sources := make([]RegionSource, 0, len(definitions))

	for _, d := range definitions {
		s, err := Parse(d, opts)
		if err != nil {
			return nil, err
		}

		sources = append(sources, s)
	}

	return sources, nil
}

// LoadGroups loads every source in order and returns one group per source.
func LoadGroups(ctx context.Context, sources []RegionSource) ([]regions.Group, error) {
	groups := make([]regions.Group, 0, len(sources))

	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		polygons, err := s.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading group '%s': %w", s.Name(), err)
		}

		log.Printf("Loaded %d polygons for group '%s'", len(polygons), s.Name())

		groups = append(groups, regions.Group{Name: s.Name(), Polygons: polygons})
	}

	return groups, nil
}
