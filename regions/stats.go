// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"github.com/mikemoraned/geo/spatial"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AreaStats summarises polygon areas, in squared degrees.
type AreaStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// AreaStatistics reports the spread of polygon areas across groups. It
// reports false when there are no polygons.
func AreaStatistics(groups []Group) (AreaStats, bool) {
	var areas []float64

	for _, g := range groups {
		for _, p := range g.Polygons {
			areas = append(areas, spatial.Area(p))
		}
	}

	if len(areas) == 0 {
		return AreaStats{}, false
	}

	return AreaStats{
		Count: len(areas),
		Min:   floats.Min(areas),
		Max:   floats.Max(areas),
		Mean:  stat.Mean(areas, nil),
	}, true
}

// FilterByArea keeps the polygons whose area is strictly greater than
// minArea. Ids are assigned after filtering, so they are dense.
func FilterByArea(g Group, minArea float64) Group {
	kept := make([]orb.Polygon, 0, len(g.Polygons))

	for _, p := range g.Polygons {
		if spatial.Area(p) > minArea {
			kept = append(kept, p)
		}
	}

	return Group{Name: g.Name, Polygons: kept}
}
