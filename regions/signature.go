// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/mikemoraned/geo/spatial"
	"github.com/schollz/progressbar/v3"
)

const (
	// Buckets is the number of one-degree bearing buckets in a signature.
	Buckets = 360
	// BucketWidth is the width of each bucket, in degrees.
	BucketWidth = 1.0

	// sampleSpacing is the largest bearing gap, in degrees, left between two
	// consecutive samples before the edge joining them gets interpolated.
	sampleSpacing = 0.5
)

// Dominant is the bucket chosen as the canonical rotational reference of a
// signature.
type Dominant struct {
	Degree int     `json:"degree"`
	Length float64 `json:"length"`
}

// RegionSignature is the normalized radial profile of a region as seen from
// its centroid.
type RegionSignature struct {
	ID          string
	GroupName   string
	Centroid    spatial.Point
	BucketWidth float64
	Lengths     [Buckets]float64

	dominant Dominant
}

// NewRegionSignature creates a signature from bucket lengths, deriving its
// dominant axis.
func NewRegionSignature(id, groupName string, centroid spatial.Point, lengths [Buckets]float64) *RegionSignature {
	return &RegionSignature{
		ID:          id,
		GroupName:   groupName,
		Centroid:    centroid,
		BucketWidth: BucketWidth,
		Lengths:     lengths,
		dominant:    findDominant(&lengths),
	}
}

// Dominant returns the dominant axis of the signature.
func (s *RegionSignature) Dominant() Dominant {
	return s.dominant
}

// ArrangeByDominant returns the lengths read starting at the dominant degree.
func (s *RegionSignature) ArrangeByDominant() [Buckets]float64 {
	var arranged [Buckets]float64

	offset := s.dominant.Degree
	for i := range arranged {
		arranged[i] = s.Lengths[(offset+i)%Buckets]
	}

	return arranged
}

// DistanceFrom returns the mean absolute difference between the two
// signatures, each aligned to its own dominant axis.
func (s *RegionSignature) DistanceFrom(other *RegionSignature) float64 {
	a := s.ArrangeByDominant()
	b := other.ArrangeByDominant()

	total := 0.0
	for i := range a {
		total += math.Abs(a[i] - b[i])
	}

	return total / Buckets
}

// findDominant picks the degree maximising the sum of the four buckets 90°
// apart. Ties on the sum go to the larger bucket at the degree itself, then to
// the first degree seen.
func findDominant(lengths *[Buckets]float64) Dominant {
	best := Dominant{Degree: 0, Length: lengths[0]}
	bestTotal := quadrantTotal(lengths, 0)

	for degree := 1; degree < Buckets; degree++ {
		length := lengths[degree]
		total := quadrantTotal(lengths, degree)

		if total > bestTotal || (total == bestTotal && length > best.Length) {
			best = Dominant{Degree: degree, Length: length}
			bestTotal = total
		}
	}

	return best
}

func quadrantTotal(lengths *[Buckets]float64, degree int) float64 {
	return lengths[degree] +
		lengths[(degree+90)%Buckets] +
		lengths[(degree+180)%Buckets] +
		lengths[(degree+270)%Buckets]
}

type sample struct {
	degree int
	length float64
}

func bucketOf(bearing float64) int {
	return int(math.Floor(bearing)) % Buckets
}

// BuildSignature computes the signature of a single region.
func BuildSignature(r Region) (*RegionSignature, error) {
	ring := spatial.Exterior(r.Polygon)
	if len(ring) == 0 {
		return nil, &RegionError{Type: ErrorTypeMalformedPolygon, ID: r.ID, Message: "polygon has no exterior vertices"}
	}

	n := len(ring)
	vertices := make([]spatial.Point, n)
	bearings := make([]float64, n)
	lengths := make([]float64, n)

	for i, p := range ring {
		vertices[i] = spatial.FromOrb(p)
		bearings[i] = spatial.Bearing(r.Centroid, vertices[i])
		lengths[i] = spatial.Distance(r.Centroid, vertices[i])
	}

	samples := make([]sample, 0, n)

	for i := range vertices {
		prev := (i - 1 + n) % n

		diff := math.Abs(bearings[i] - bearings[prev])
		if diff >= sampleSpacing {
			count := int(math.Ceil(diff / sampleSpacing))
			step := 1.0 / float64(count)

			for k := 1; k <= count; k++ {
				p := spatial.Interpolate(vertices[prev], vertices[i], step*float64(k))
				samples = append(samples, sample{
					degree: bucketOf(spatial.Bearing(r.Centroid, p)),
					length: spatial.Distance(r.Centroid, p),
				})
			}
		}

		samples = append(samples, sample{degree: bucketOf(bearings[i]), length: lengths[i]})
	}

	// Only polygon vertices take part in normalisation.
	maxLength := 0.0
	for _, l := range lengths {
		maxLength = math.Max(maxLength, l)
	}

	if maxLength == 0 {
		return nil, &RegionError{Type: ErrorTypeDegenerateGeometry, ID: r.ID, Message: "all vertices coincide with the centroid"}
	}

	var buckets [Buckets]float64

	for _, s := range samples {
		// Interpolated samples can land beyond the farthest vertex.
		normalized := math.Min(s.length/maxLength, 1.0)
		buckets[s.degree] = math.Max(buckets[s.degree], normalized)
	}

	return NewRegionSignature(r.ID, r.GroupName, r.Centroid, buckets), nil
}

// BuildOptions tune BuildSignatures.
type BuildOptions struct {
	// MaxProcs bounds the number of regions processed concurrently. Zero
	// means runtime.NumCPU().
	MaxProcs int
	// Progress shows a progress bar on stderr when it is a terminal.
	Progress bool
}

// BuildSignatures computes signatures for every region in the catalog.
// Regions whose signature cannot be built are logged and left out.
func BuildSignatures(ctx context.Context, c *Catalog, opts BuildOptions) (map[string]*RegionSignature, error) {
	maxProcs := opts.MaxProcs
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	n := c.Len()

	var bar *progressbar.ProgressBar
	if opts.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Calculating signatures"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		signatures = make(map[string]*RegionSignature, n)
		failed     int
	)

	semaphore := make(chan struct{}, maxProcs)

	for _, r := range c.regions {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()

			return nil, fmt.Errorf("calculating signatures: %w", ctx.Err())
		}

		if err := ctx.Err(); err != nil {
			<-semaphore
			wg.Wait()

			return nil, fmt.Errorf("calculating signatures: %w", err)
		}

		wg.Add(1)

		go func(r Region) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			signature, err := BuildSignature(r)

			mu.Lock()
			if err != nil {
				failed++

				log.Printf("Skipping region - %s", err)
			} else {
				signatures[r.ID] = signature
			}
			mu.Unlock()

			if bar != nil {
				_ = bar.Add(1)
			}
		}(r)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("calculating signatures: %w", err)
	}

	log.Printf("Calculated %d signatures for %d regions in %d groups (%d skipped)", len(signatures), n, len(c.groups), failed)

	return signatures, nil
}
