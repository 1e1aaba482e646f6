// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"sort"
)

// SimilarityResult pairs a candidate signature with its score against a
// target. A score of 1.0 means identical signatures.
type SimilarityResult struct {
	Signature *RegionSignature
	Score     float64
}

// Index answers similarity queries over a fixed set of signatures.
type Index struct {
	signatures map[string]*RegionSignature
	ids        []string
}

// NewIndex creates an index over signatures keyed by region id.
func NewIndex(signatures map[string]*RegionSignature) *Index {
	ids := make([]string, 0, len(signatures))
	for id := range signatures {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return &Index{signatures: signatures, ids: ids}
}

// Len returns the number of indexed signatures.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Signature returns the signature for id.
func (idx *Index) Signature(id string) (*RegionSignature, bool) {
	s, ok := idx.signatures[id]

	return s, ok
}

// MostSimilar ranks every other signature by distance to the target and keeps
// those scoring at least minScore, best first.
func (idx *Index) MostSimilar(targetID string, minScore float64) ([]SimilarityResult, error) {
	target, ok := idx.signatures[targetID]
	if !ok {
		return nil, &RegionError{Type: ErrorTypeUnknownRegionID, ID: targetID, Message: "not in catalog"}
	}

	type candidate struct {
		signature *RegionSignature
		distance  float64
	}

	candidates := make([]candidate, 0, len(idx.ids))

	for _, id := range idx.ids {
		if id == targetID {
			continue
		}

		s := idx.signatures[id]
		candidates = append(candidates, candidate{signature: s, distance: target.DistanceFrom(s)})
	}

	// ids are already sorted, so a stable sort keeps equal distances by id.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	results := make([]SimilarityResult, 0, len(candidates))

	for _, c := range candidates {
		score := 1.0 - c.distance
		if score >= minScore {
			results = append(results, SimilarityResult{Signature: c.signature, Score: score})
		}
	}

	return results, nil
}

// MostSimilarIDs is MostSimilar reduced to the candidate ids.
func (idx *Index) MostSimilarIDs(targetID string, minScore float64) ([]string, error) {
	results, err := idx.MostSimilar(targetID, minScore)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Signature.ID
	}

	return ids, nil
}
