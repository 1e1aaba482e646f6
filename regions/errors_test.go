// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		check     func(error) bool
		wantMatch bool
	}{
		{
			name:      "malformed",
			err:       &RegionError{Type: ErrorTypeMalformedPolygon},
			check:     IsMalformedPolygon,
			wantMatch: true,
		},
		{
			name:      "wrapped degenerate",
			err:       fmt.Errorf("building: %w", &RegionError{Type: ErrorTypeDegenerateGeometry}),
			check:     IsDegenerateGeometry,
			wantMatch: true,
		},
		{
			name:      "unknown id",
			err:       &RegionError{Type: ErrorTypeUnknownRegionID, ID: "x"},
			check:     IsUnknownRegionID,
			wantMatch: true,
		},
		{
			name:      "duplicate group",
			err:       &RegionError{Type: ErrorTypeDuplicateGroup},
			check:     IsDuplicateGroup,
			wantMatch: true,
		},
		{
			name:      "other type",
			err:       &RegionError{Type: ErrorTypeMalformedPolygon},
			check:     IsUnknownRegionID,
			wantMatch: false,
		},
		{
			name:      "plain error",
			err:       errors.New("unknown region id"),
			check:     IsUnknownRegionID,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.wantMatch {
				t.Errorf("check() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestRegionErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RegionError
		want string
	}{
		{
			name: "type only",
			err:  &RegionError{Type: ErrorTypeDegenerateGeometry},
			want: "degenerate geometry",
		},
		{
			name: "with id and message",
			err:  &RegionError{Type: ErrorTypeUnknownRegionID, ID: "a-1", Message: "not in catalog"},
			want: "a-1: not in catalog",
		},
		{
			name: "with cause",
			err:  &RegionError{Type: ErrorTypeMalformedPolygon, Err: errors.New("boom")},
			want: "malformed polygon: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegionErrorUnwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &RegionError{Type: ErrorTypeMalformedPolygon, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find wrapped error")
	}
}
