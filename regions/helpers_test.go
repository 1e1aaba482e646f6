// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"github.com/paulmach/orb"
)

// square returns a closed, counter-clockwise square centred on (lng, lat).
func square(lng, lat, half float64) orb.Polygon {
	return orb.Polygon{{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
		{lng - half, lat - half},
	}}
}

func triangle(lng, lat, size float64) orb.Polygon {
	return orb.Polygon{{
		{lng - size, lat - size},
		{lng + size, lat - size},
		{lng, lat + size},
		{lng - size, lat - size},
	}}
}

// ell is an L-shaped hexagon, deliberately without rotational symmetry.
func ell(lng, lat, size float64) orb.Polygon {
	return orb.Polygon{{
		{lng, lat},
		{lng + 2*size, lat},
		{lng + 2*size, lat + size},
		{lng + size, lat + size},
		{lng + size, lat + 3*size},
		{lng, lat + 3*size},
		{lng, lat},
	}}
}
