// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package regions builds shape signatures for catalogs of polygon regions and
// answers similarity and nearest-centroid queries over them.
package regions

import (
	"fmt"
	"log"

	"github.com/mikemoraned/geo/spatial"
	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// Group is a named, ordered set of polygons coming from one region source.
type Group struct {
	Name     string
	Polygons []orb.Polygon
}

// Region is a polygon with a stable identifier and its centroid.
type Region struct {
	ID        string        `json:"id"`
	GroupName string        `json:"group_name"`
	Polygon   orb.Polygon   `json:"-"`
	Centroid  spatial.Point `json:"centroid"`
}

// Cell returns the H3 cell containing the region centroid at the given resolution.
func (r Region) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(r.Centroid.Lat, r.Centroid.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to h3 cell at res %d: %w", r.ID, res, err)
	}

	return cell, nil
}

// RegionID returns the identifier for the polygon at index within group.
func RegionID(group string, index int) string {
	return fmt.Sprintf("%s-%d", group, index)
}

// Catalog is an immutable set of regions. Rebuilding it from scratch is the
// only way to refresh it.
type Catalog struct {
	groups  []string
	regions []Region
	byID    map[string]int
}

// BuildCatalog assigns ids and centroids to every polygon of every group.
// Polygons without a computable centroid are dropped.
func BuildCatalog(groups []Group) (*Catalog, error) {
	c := &Catalog{
		byID: make(map[string]int),
	}

	seen := make(map[string]bool, len(groups))

	for _, group := range groups {
		if seen[group.Name] {
			return nil, &RegionError{
				Type:    ErrorTypeDuplicateGroup,
				ID:      group.Name,
				Message: "group supplied more than once",
			}
		}

		seen[group.Name] = true
		c.groups = append(c.groups, group.Name)

		dropped := 0

		for i, polygon := range group.Polygons {
			centroid, ok := spatial.Centroid(polygon)
			if !ok {
				dropped++

				continue
			}

			id := RegionID(group.Name, i)
			c.byID[id] = len(c.regions)
			c.regions = append(c.regions, Region{
				ID:        id,
				GroupName: group.Name,
				Polygon:   polygon,
				Centroid:  centroid,
			})
		}

		if dropped > 0 {
			log.Printf("group '%s': dropped %d of %d polygons without a centroid", group.Name, dropped, len(group.Polygons))
		}
	}

	return c, nil
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	return len(c.regions)
}

// Groups returns the group names in the order they were supplied.
func (c *Catalog) Groups() []string {
	return append([]string(nil), c.groups...)
}

// Regions returns every region in catalog order.
func (c *Catalog) Regions() []Region {
	return append([]Region(nil), c.regions...)
}

// Region returns the region with the given id.
func (c *Catalog) Region(id string) (Region, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Region{}, false
	}

	return c.regions[i], true
}

// IDs returns the region ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.regions))
	for i, r := range c.regions {
		ids[i] = r.ID
	}

	return ids
}

// Centroids returns the region centroids in catalog order.
func (c *Catalog) Centroids() []spatial.Point {
	centroids := make([]spatial.Point, len(c.regions))
	for i, r := range c.regions {
		centroids[i] = r.Centroid
	}

	return centroids
}

// Polygons returns the region polygons in catalog order.
func (c *Catalog) Polygons() []orb.Polygon {
	polygons := make([]orb.Polygon, len(c.regions))
	for i, r := range c.regions {
		polygons[i] = r.Polygon
	}

	return polygons
}

// Rays returns one segment from the centroid to each exterior vertex.
func Rays(r Region) orb.MultiLineString {
	ring := spatial.Exterior(r.Polygon)
	rays := make(orb.MultiLineString, 0, len(ring))

	for _, p := range ring {
		rays = append(rays, orb.LineString{r.Centroid.Orb(), p})
	}

	return rays
}
