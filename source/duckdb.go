// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DuckDBSource runs a query whose first column is a GeoJSON geometry, for
// example SELECT ST_AsGeoJSON(geom) FROM ST_Read('wards.shp').
type DuckDBSource struct {
	GroupName string
	DB        *sql.DB
	Query     string
	// LoadSpatial loads the spatial extension before running the query.
	LoadSpatial bool
}

func (s *DuckDBSource) Name() string { return s.GroupName }

func (s *DuckDBSource) Load(ctx context.Context) ([]orb.Polygon, error) {
	if s.LoadSpatial {
		if _, err := s.DB.ExecContext(ctx, `INSTALL spatial; LOAD spatial;`); err != nil {
			return nil, fmt.Errorf("loading spatial extension: %w", err)
		}
	}

	rows, err := s.DB.QueryContext(ctx, s.Query)
	if err != nil {
		return nil, fmt.Errorf("querying geometries: %w", err)
	}
	defer rows.Close()

	var polygons []orb.Polygon

	row := 0
	for rows.Next() {
		var text sql.NullString
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}

		row++

		if !text.Valid {
			continue
		}

		g, err := geojson.UnmarshalGeometry([]byte(text.String))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing geometry: %w", row, err)
		}

		polygons = append(polygons, Polygons(g.Geometry())...)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return polygons, nil
}
