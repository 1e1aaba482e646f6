// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Bearing returns the initial great-circle bearing from one point to another,
// in degrees within [0, 360).
func Bearing(from, to Point) float64 {
	b := math.Mod(geo.Bearing(from.Orb(), to.Orb()), 360)
	if b < 0 {
		b += 360
	}

	if b >= 360 {
		b = 0
	}

	return b
}

// Distance returns the haversine distance between two points in meters.
func Distance(a, b Point) float64 {
	return a.HaversineDistance(&b)
}

// Interpolate returns the point found at ratio (0 → a, 1 → b) along the
// great-circle segment between a and b.
func Interpolate(a, b Point, ratio float64) Point {
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lng))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lng))

	ll := s2.LatLngFromPoint(s2.Interpolate(ratio, pa, pb))

	return Point{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}

// Exterior returns the outer ring of a polygon, or nil when it has none.
func Exterior(polygon orb.Polygon) orb.Ring {
	if len(polygon) == 0 {
		return nil
	}

	return polygon[0]
}

// Centroid computes the planar centroid of a polygon's exterior ring. Holes
// are ignored. It reports false for empty or zero-area rings, where no
// meaningful centroid exists.
func Centroid(polygon orb.Polygon) (Point, bool) {
	ring := Exterior(polygon)
	if len(ring) == 0 {
		return Point{}, false
	}

	c, area := planar.CentroidArea(ring)
	if area == 0 || math.IsNaN(c[0]) || math.IsNaN(c[1]) || math.IsInf(c[0], 0) || math.IsInf(c[1], 0) {
		return Point{}, false
	}

	return FromOrb(c), true
}

// Area returns the unsigned planar area of a polygon's exterior ring, in
// squared degrees.
func Area(polygon orb.Polygon) float64 {
	ring := Exterior(polygon)
	if len(ring) == 0 {
		return 0
	}

	return math.Abs(planar.Area(ring))
}
