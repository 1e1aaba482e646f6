// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/paulmach/orb"
)

// HTTPSource downloads a GeoJSON document.
type HTTPSource struct {
	GroupName string
	URL       string
	Client    *http.Client
}

func (s *HTTPSource) Name() string { return s.GroupName }

func (s *HTTPSource) Load(ctx context.Context) ([]orb.Polygon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", s.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.URL, err)
	}

	polygons, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.URL, err)
	}

	return polygons, nil
}
