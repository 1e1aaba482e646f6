// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikemoraned/geo/regions"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
		{lng, lat},
		{lng + size, lat},
		{lng, lat + size},
		{lng, lat},
	}}
}

func annotate(t *testing.T, groups ...regions.Group) *regions.Annotated {
	a, err := regions.Annotate(context.Background(), groups, regions.BuildOptions{})
	require.NoError(t, err)

	return a
}

func testCatalog(t *testing.T) *regions.Annotated {
	return annotate(t,
		regions.Group{Name: "Centro", Polygons: []orb.Polygon{square(-56.19, -34.90, 0.01), triangle(-56.15, -34.88, 0.02)}},
		regions.Group{Name: "Pocitos", Polygons: []orb.Polygon{square(-56.15, -34.91, 0.01)}},
	)
}

func setupServerTest(t *testing.T, opts Options) (*gin.Engine, *Server) {
	gin.SetMode(gin.TestMode)

	s := NewServer(testCatalog(t), opts)

	return s.Router(), s
}

func get(t *testing.T, router *gin.Engine, url string, out any) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}

	return w
}

func TestListRegions(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	var got []RegionSummary
	w := get(t, router, "/api/regions", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, got, 3)
	assert.Equal(t, "Centro-0", got[0].ID)
	assert.True(t, got[0].Signature)
	assert.NotNil(t, got[0].Dominant)
	assert.NotEmpty(t, got[0].Cell)
}

func TestListRegionsByGroup(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	var got []RegionSummary
	w := get(t, router, "/api/regions?group=pocitos", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, got, 1)
	assert.Equal(t, "Pocitos-0", got[0].ID)
}

func TestGetRegion(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	var got RegionDetail
	w := get(t, router, "/api/regions/Centro-1", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Centro", got.Group)
	assert.Len(t, got.Lengths, regions.Buckets)
	assert.InDelta(t, 1.0, got.BucketWidth, 1e-9)

	w = get(t, router, "/api/regions/Centro-9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimilarRegions(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	var got []SimilarRegion
	w := get(t, router, "/api/regions/Centro-0/similar", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, got, 2)
	assert.Equal(t, "Pocitos-0", got[0].ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-2)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestSimilarRegionsParameters(t *testing.T) {
	router, _ := setupServerTest(t, Options{MinScore: 0})

	var got []SimilarRegion
	get(t, router, "/api/regions/Centro-0/similar?min_score=0.99", &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Pocitos-0", got[0].ID)

	got = nil
	get(t, router, "/api/regions/Centro-0/similar?limit=1", &got)
	assert.Len(t, got, 1)

	tests := []struct {
		url  string
		code int
	}{
		{"/api/regions/Centro-0/similar?min_score=high", http.StatusBadRequest},
		{"/api/regions/Centro-0/similar?limit=-1", http.StatusBadRequest},
		{"/api/regions/Nowhere-0/similar", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := get(t, router, tt.url, nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestSimilarRegionsDefaultMinScore(t *testing.T) {
	router, _ := setupServerTest(t, Options{MinScore: 1.5})

	var got []SimilarRegion
	w := get(t, router, "/api/regions/Centro-0/similar", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, got)
}

func TestRegionRays(t *testing.T) {
	router, s := setupServerTest(t, Options{})

	w := get(t, router, "/api/regions/Pocitos-0/rays", nil)
	require.Equal(t, http.StatusOK, w.Code)

	feature, err := geojson.UnmarshalFeature(w.Body.Bytes())
	require.NoError(t, err)

	rays, ok := feature.Geometry.(orb.MultiLineString)
	require.True(t, ok, "geometry is %T", feature.Geometry)

	r, _ := s.Current().Catalog.Region("Pocitos-0")
	assert.Len(t, rays, len(r.Polygon[0]))
	assert.Equal(t, "Pocitos-0", feature.Properties.MustString("id"))
}

func TestNearestRegion(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	var got NearestResponse
	w := get(t, router, "/api/nearest?lat=-34.909&lng=-56.151", &got)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pocitos-0", got.ID)
	assert.Less(t, got.Distance, 200.0)

	tests := []struct {
		url  string
		code int
	}{
		{"/api/nearest?lng=-56.1", http.StatusBadRequest},
		{"/api/nearest?lat=abc&lng=-56.1", http.StatusBadRequest},
		{"/api/nearest?lat=-34.9&lng=200", http.StatusBadRequest},
		{"/api/nearest?lat=91&lng=0", http.StatusBadRequest},
		{"/api/nearest?lat=NaN&lng=0", http.StatusBadRequest},
		{"/api/nearest?lat=0&lng=nan", http.StatusBadRequest},
		{"/api/nearest?lat=-Inf&lng=0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := get(t, router, tt.url, nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestNearestRegionEmptyCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := NewServer(annotate(t), Options{}).Router()

	w := get(t, router, "/api/nearest?lat=0&lng=0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func post(router *gin.Engine, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestReload(t *testing.T) {
	replacement := annotate(t, regions.Group{Name: "Prado", Polygons: []orb.Polygon{square(-56.2, -34.86, 0.01)}})

	router, s := setupServerTest(t, Options{
		Loader: func(context.Context) (*regions.Annotated, error) { return replacement, nil },
	})

	w := post(router, "/api/reload")
	require.Equal(t, http.StatusOK, w.Code)

	var got ReloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Regions)
	assert.Equal(t, 1, got.Signatures)
	assert.Same(t, replacement, s.Current())

	w = get(t, router, "/api/regions/Centro-0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReloadFailureKeepsCatalog(t *testing.T) {
	router, s := setupServerTest(t, Options{
		Loader: func(context.Context) (*regions.Annotated, error) { return nil, errors.New("source offline") },
	})
	before := s.Current()

	w := post(router, "/api/reload")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "source offline")
	assert.Same(t, before, s.Current())
}

func TestReloadWithoutLoader(t *testing.T) {
	router, _ := setupServerTest(t, Options{})

	w := post(router, "/api/reload")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	router, _ := setupServerTest(t, Options{
		Metrics: collector,
		Loader:  func(context.Context) (*regions.Annotated, error) { return nil, errors.New("boom") },
	})

	assert.InDelta(t, 3, testutil.ToFloat64(collector.Regions), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(collector.Signatures), 0)

	get(t, router, "/api/regions", nil)
	get(t, router, "/api/regions/Nowhere-0", nil)
	post(router, "/api/reload")

	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests.WithLabelValues("/api/regions", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Requests.WithLabelValues("/api/regions/:id", "GET", "404")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.Reloads.WithLabelValues("error")), 0)

	w := get(t, router, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "geo_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), "geo_catalog_regions 3")
}

func TestNewCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewCollector(reg)
	require.NoError(t, err)

	second, err := NewCollector(reg)
	require.NoError(t, err)

	assert.Same(t, first.Requests, second.Requests)
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.SetCatalogCounts(1, 1)
		c.ObserveReload(nil)
	})
}
