// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package regions

import (
	"errors"
	"fmt"
)

// RegionError describes a failure tied to a single region or query.
type RegionError struct {
	Type    ErrorType
	ID      string
	Message string
	Err     error
}

// ErrorType classifies region errors.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeMalformedPolygon empty or otherwise unusable ring.
	ErrorTypeMalformedPolygon
	// ErrorTypeDegenerateGeometry every vertex sits on the centroid.
	ErrorTypeDegenerateGeometry
	// ErrorTypeUnknownRegionID id not present in the catalog.
	ErrorTypeUnknownRegionID
	// ErrorTypeDuplicateGroup group name supplied more than once.
	ErrorTypeDuplicateGroup
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeMalformedPolygon:
		return "malformed polygon"
	case ErrorTypeDegenerateGeometry:
		return "degenerate geometry"
	case ErrorTypeUnknownRegionID:
		return "unknown region id"
	case ErrorTypeDuplicateGroup:
		return "duplicate group"
	default:
		return "unknown"
	}
}

func (e *RegionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Type.String()
	}

	if e.ID != "" {
		msg = fmt.Sprintf("%s: %s", e.ID, msg)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

func isType(err error, t ErrorType) bool {
	var regionErr *RegionError
	if errors.As(err, &regionErr) {
		return regionErr.Type == t
	}

	return false
}

// IsMalformedPolygon reports whether err stems from an empty or invalid ring.
func IsMalformedPolygon(err error) bool {
	return isType(err, ErrorTypeMalformedPolygon)
}

// IsDegenerateGeometry reports whether err stems from a zero maximum radial length.
func IsDegenerateGeometry(err error) bool {
	return isType(err, ErrorTypeDegenerateGeometry)
}

// IsUnknownRegionID reports whether err stems from a lookup of a missing id.
func IsUnknownRegionID(err error) bool {
	return isType(err, ErrorTypeUnknownRegionID)
}

// IsDuplicateGroup reports whether err stems from a repeated group name.
func IsDuplicateGroup(err error) bool {
	return isType(err, ErrorTypeDuplicateGroup)
}
