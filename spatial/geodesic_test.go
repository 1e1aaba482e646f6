// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestBearing(t *testing.T) {
	origin := Point{}

	tests := []struct {
		name string
		to   Point
		want float64
	}{
		{"north", Point{Lat: 1}, 0},
		{"east", Point{Lng: 1}, 90},
		{"south", Point{Lat: -1}, 180},
		{"west", Point{Lng: -1}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 360.0)
		})
	}
}

func TestDistance(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 1}

	// One degree of longitude on the equator.
	assert.InDelta(t, 111_319, Distance(a, b), 1)
	assert.Zero(t, Distance(a, a))
}

func TestInterpolate(t *testing.T) {
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 0, Lng: 10}

	start := Interpolate(a, b, 0)
	assert.InDelta(t, 0, start.Lng, 1e-9)

	end := Interpolate(a, b, 1)
	assert.InDelta(t, 10, end.Lng, 1e-9)

	mid := Interpolate(a, b, 0.5)
	assert.InDelta(t, 5, mid.Lng, 1e-9)
	assert.InDelta(t, 0, mid.Lat, 1e-9)

	// Along a meridian-crossing great circle the midpoint is equidistant.
	c := Point{Lat: 10, Lng: -20}
	d := Point{Lat: 40, Lng: 30}
	m := Interpolate(c, d, 0.5)
	assert.InDelta(t, Distance(c, m), Distance(m, d), 1)
}

func TestCentroid(t *testing.T) {
	square := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}

	c, ok := Centroid(square)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, c.Lat, 1e-12)
	assert.InDelta(t, 0.5, c.Lng, 1e-12)
}

func TestCentroidIgnoresHoles(t *testing.T) {
	withHole := orb.Polygon{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {0.5, 1.5}, {0.5, 0.5}},
	}

	c, ok := Centroid(withHole)
	assert.True(t, ok)
	assert.InDelta(t, 2, c.Lat, 1e-12)
	assert.InDelta(t, 2, c.Lng, 1e-12)
}

func TestCentroidFailures(t *testing.T) {
	tests := []struct {
		name    string
		polygon orb.Polygon
	}{
		{"no rings", orb.Polygon{}},
		{"empty ring", orb.Polygon{{}}},
		{"collapsed", orb.Polygon{{{1, 1}, {1, 1}, {1, 1}, {1, 1}}}},
		{"collinear", orb.Polygon{{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Centroid(tt.polygon)
			assert.False(t, ok)
		})
	}
}

func TestArea(t *testing.T) {
	square := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}
	assert.InDelta(t, 4, Area(square), 1e-12)

	// Clockwise rings still report a positive area.
	reversed := orb.Polygon{{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}}
	assert.InDelta(t, 4, Area(reversed), 1e-12)

	assert.Zero(t, Area(orb.Polygon{}))
	assert.False(t, math.IsNaN(Area(orb.Polygon{{}})))
}
