// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikemoraned/geo/regions"
	"github.com/mikemoraned/geo/spatial"
	"github.com/mikemoraned/geo/store"
	"github.com/mikemoraned/geo/utils/textutils"
	"github.com/paulmach/orb/geojson"
)

// RegionSummary is the listing representation of a region.
type RegionSummary struct {
	ID        string            `json:"id"`
	Group     string            `json:"group"`
	Centroid  spatial.Point     `json:"centroid"`
	Cell      string            `json:"h3_cell,omitempty"`
	Dominant  *regions.Dominant `json:"dominant,omitempty"`
	Signature bool              `json:"has_signature"`
}

// RegionDetail adds the signature lengths to a summary.
type RegionDetail struct {
	RegionSummary
	BucketWidth float64   `json:"bucket_width,omitempty"`
	Lengths     []float64 `json:"lengths,omitempty"`
}

// SimilarRegion is one entry of a similarity response.
type SimilarRegion struct {
	ID    string  `json:"id"`
	Group string  `json:"group"`
	Score float64 `json:"score"`
}

// NearestResponse is the result of a nearest centroid lookup.
type NearestResponse struct {
	ID       string        `json:"id"`
	Group    string        `json:"group"`
	Centroid spatial.Point `json:"centroid"`
	Distance float64       `json:"distance_m"`
}

// ReloadResponse reports the catalog built by a reload.
type ReloadResponse struct {
	Regions    int       `json:"regions"`
	Signatures int       `json:"signatures"`
	BuiltAt    time.Time `json:"built_at"`
}

func summarize(a *regions.Annotated, r regions.Region) RegionSummary {
	summary := RegionSummary{ID: r.ID, Group: r.GroupName, Centroid: r.Centroid}

	if cell, err := r.Cell(store.CellResolution); err == nil {
		summary.Cell = cell.String()
	}

	if sig, ok := a.Index.Signature(r.ID); ok {
		d := sig.Dominant()
		summary.Dominant = &d
		summary.Signature = true
	}

	return summary
}

func (s *Server) listRegions(ctx *gin.Context) {
	a := s.Current()
	groups := ctx.QueryArray("group")

	summaries := make([]RegionSummary, 0, a.Catalog.Len())

	for _, r := range a.Catalog.Regions() {
		if !textutils.MatchesAny(r.GroupName, groups) {
			continue
		}

		summaries = append(summaries, summarize(a, r))
	}

	ctx.JSON(http.StatusOK, summaries)
}

func (s *Server) lookup(ctx *gin.Context) (*regions.Annotated, regions.Region, bool) {
	a := s.Current()
	id := ctx.Param("id")

	r, ok := a.Catalog.Region(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown region id %q", id)})

		return nil, regions.Region{}, false
	}

	return a, r, true
}

func (s *Server) getRegion(ctx *gin.Context) {
	a, r, ok := s.lookup(ctx)
	if !ok {
		return
	}

	detail := RegionDetail{RegionSummary: summarize(a, r)}

	if sig, ok := a.Index.Signature(r.ID); ok {
		detail.BucketWidth = sig.BucketWidth
		detail.Lengths = append([]float64(nil), sig.Lengths[:]...)
	}

	ctx.JSON(http.StatusOK, detail)
}

func (s *Server) similarRegions(ctx *gin.Context) {
	minScore := s.minScore

	if raw, ok := ctx.GetQuery("min_score"); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_score"})

			return
		}

		minScore = v
	}

	limit := 0

	if raw, ok := ctx.GetQuery("limit"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})

			return
		}

		limit = v
	}

	id := ctx.Param("id")

	results, err := s.Current().MostSimilar(id, minScore)
	if err != nil {
		if regions.IsUnknownRegionID(err) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out := make([]SimilarRegion, len(results))
	for i, r := range results {
		out[i] = SimilarRegion{ID: r.Signature.ID, Group: r.Signature.GroupName, Score: r.Score}
	}

	ctx.JSON(http.StatusOK, out)
}

func (s *Server) regionRays(ctx *gin.Context) {
	_, r, ok := s.lookup(ctx)
	if !ok {
		return
	}

	feature := geojson.NewFeature(regions.Rays(r))
	feature.Properties["id"] = r.ID
	feature.Properties["group"] = r.GroupName

	ctx.JSON(http.StatusOK, feature)
}

func parseCoordinate(ctx *gin.Context, name string, limit float64) (float64, error) {
	raw, ok := ctx.GetQuery(name)
	if !ok {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", name)
	}

	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s out of range", name)
	}

	return v, nil
}

func (s *Server) nearestRegion(ctx *gin.Context) {
	lat, err := parseCoordinate(ctx, "lat", 90)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	lng, err := parseCoordinate(ctx, "lng", 180)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	a := s.Current()
	query := spatial.Point{Lat: lat, Lng: lng}

	id, ok := a.Nearest(query)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "catalog has no regions"})

		return
	}

	r, _ := a.Catalog.Region(id)

	ctx.JSON(http.StatusOK, NearestResponse{
		ID:       r.ID,
		Group:    r.GroupName,
		Centroid: r.Centroid,
		Distance: query.HaversineDistance(&r.Centroid),
	})
}

func (s *Server) reload(ctx *gin.Context) {
	a, err := s.Reload(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, errNoLoader) {
			ctx.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed", "details": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, ReloadResponse{
		Regions:    a.Catalog.Len(),
		Signatures: a.Index.Len(),
		BuiltAt:    a.BuiltAt,
	})
}
