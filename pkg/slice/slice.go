// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic Map that the standard [slices] package lacks.
package slice

// Map applies transform to every element. A nil input yields an empty, non-nil
// slice, so the result always encodes as a JSON array.
func Map[T, U any](input []T, transform func(T) U) []U {
	result := make([]U, 0, len(input))
	for _, value := range input {
		result = append(result, transform(value))
	}
	return result
}
