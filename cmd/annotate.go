// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/source"
	"github.com/mikemoraned/geo/utils/httputils"
	"github.com/mikemoraned/geo/utils/textutils"
)

var errNoSources = errors.New("at least one --source is required")

func openDB() (*sql.DB, error) {
	db, err := sql.Open("duckdb", opts.DbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func httpClientOptions() httputils.ClientOptions {
	var trace io.Writer
	if opts.Trace {
		trace = os.Stderr
	}

	return httputils.ClientOptions{
		UserAgent: fmt.Sprintf("geo/%s (+https://github.com/mikemoraned/geo)", Version),
		Timeout:   2 * time.Minute,
		Trace:     trace,
	}
}

// loadGroups reads every configured source and applies the group and area
// filters.
func loadGroups(ctx context.Context, db *sql.DB) ([]regions.Group, error) {
	if len(opts.Sources) == 0 {
		return nil, errNoSources
	}

	sources, err := source.ParseAll(opts.Sources, source.ParseOptions{
		Client: httputils.NewClient(httpClientOptions()),
		DB:     db,
	})
	if err != nil {
		return nil, err
	}

	var selected []source.RegionSource

	for _, s := range sources {
		if textutils.MatchesAny(s.Name(), opts.Groups) {
			selected = append(selected, s)
		}
	}

	groups, err := source.LoadGroups(ctx, selected)
	if err != nil {
		return nil, err
	}

	if stats, ok := regions.AreaStatistics(groups); ok {
		log.Printf("Polygon areas - count: %d, min: %g, max: %g, mean: %g", stats.Count, stats.Min, stats.Max, stats.Mean)
	}

	if opts.MinArea > 0 {
		for i, g := range groups {
			groups[i] = regions.FilterByArea(g, opts.MinArea)
			if dropped := len(g.Polygons) - len(groups[i].Polygons); dropped > 0 {
				log.Printf("group '%s': dropped %d polygons with area <= %g", g.Name, dropped, opts.MinArea)
			}
		}
	}

	return groups, nil
}

// annotate loads the configured groups and builds their catalog and
// signatures.
func annotate(ctx context.Context, db *sql.DB) (*regions.Annotated, error) {
	groups, err := loadGroups(ctx, db)
	if err != nil {
		return nil, err
	}

	return regions.Annotate(ctx, groups, regions.BuildOptions{MaxProcs: opts.MaxProcs, Progress: true})
}
