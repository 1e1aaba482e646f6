// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Polygons narrows a geometry to the polygons it contains. Multi polygons and
// collections are flattened; points and lines contribute nothing.
func Polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		return append([]orb.Polygon(nil), v...)
	case orb.Collection:
		var out []orb.Polygon
		for _, member := range v {
			out = append(out, Polygons(member)...)
		}

		return out
	default:
		return nil
	}
}

// ParseGeoJSON extracts the polygons of a FeatureCollection, a Feature, or a
// bare geometry.
func ParseGeoJSON(data []byte) ([]orb.Polygon, error) {
	var head struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("reading GeoJSON type: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing feature collection: %w", err)
		}

		var out []orb.Polygon
		for _, f := range fc.Features {
			out = append(out, Polygons(f.Geometry)...)
		}

		return out, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("parsing feature: %w", err)
		}

		return Polygons(f.Geometry), nil
	case "":
		return nil, errors.New("GeoJSON document has no type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s geometry: %w", head.Type, err)
		}

		return Polygons(g.Geometry()), nil
	}
}

// FileSource reads a GeoJSON document from disk.
type FileSource struct {
	GroupName string
	Path      string
}

func (s *FileSource) Name() string { return s.GroupName }

func (s *FileSource) Load(_ context.Context) ([]orb.Polygon, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	polygons, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	return polygons, nil
}
