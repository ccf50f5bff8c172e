package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func SortedKeys[T constraints.Ordered, K any](input map[T]K) []T {
	result := make([]T, 0, len(input))
	for k := range input {
		result = append(result, k)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// FindDuplicate returns the first value that occurs more than once in the given list
func FindDuplicate[T comparable](values []T) (T, bool) {
	seen := make(map[T]struct{}, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			return v, true
		}
		seen[v] = struct{}{}
	}
	var empty T
	return empty, false
}
