// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package store

// AnyToFloat64Slice converts a scanned DuckDB list to []float64 safely.
func AnyToFloat64Slice(v any) ([]float64, bool) {
	if v == nil {
		return nil, true
	}

	if f, ok := v.([]float64); ok {
		return f, true
	}

	if i, ok := v.([]any); ok {
		s := make([]float64, len(i))

		for j, e := range i {
			switch val := e.(type) {
			case float64:
				s[j] = val
			case float32:
				s[j] = float64(val)
			case int64:
				s[j] = float64(val)
			default:
				return nil, false
			}
		}

		return s, true
	}

	return nil, false
}
