// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"github.com/mikemoraned/geo/spatial"
)

// Nearest returns the id of the region whose centroid is closest to query.
// The first region wins ties. It reports false when regions is empty.
func Nearest(regions []Region, query spatial.Point) (string, bool) {
	var (
		closest     string
		closestDist float64
		found       bool
	)

	for _, r := range regions {
		d := spatial.Distance(query, r.Centroid)
		if !found || d < closestDist {
			closest, closestDist, found = r.ID, d, true
		}
	}

	return closest, found
}

// Nearest returns the id of the region whose centroid is closest to query.
func (c *Catalog) Nearest(query spatial.Point) (string, bool) {
	return Nearest(c.regions, query)
}
