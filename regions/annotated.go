// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"context"
	"fmt"
	"time"

	"github.com/mikemoraned/geo/spatial"
)

// Annotated bundles a catalog with the signatures computed for it. It is
// built once and never mutated; callers refresh by building a new one.
type Annotated struct {
	Catalog *Catalog
	Index   *Index
	BuiltAt time.Time
}

// Annotate builds the catalog and signatures for groups.
func Annotate(ctx context.Context, groups []Group, opts BuildOptions) (*Annotated, error) {
	catalog, err := BuildCatalog(groups)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	signatures, err := BuildSignatures(ctx, catalog, opts)
	if err != nil {
		return nil, err
	}

	return &Annotated{
		Catalog: catalog,
		Index:   NewIndex(signatures),
		BuiltAt: time.Now(),
	}, nil
}

// MostSimilar delegates to the signature index.
func (a *Annotated) MostSimilar(targetID string, minScore float64) ([]SimilarityResult, error) {
	return a.Index.MostSimilar(targetID, minScore)
}

// Nearest returns the id of the region whose centroid is closest to query.
func (a *Annotated) Nearest(query spatial.Point) (string, bool) {
	return a.Catalog.Nearest(query)
}
