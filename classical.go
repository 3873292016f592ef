package qsearch

import (
	"cmp"
	"slices"
	"time"
)

// SearchResult reports where a classical search found its target and how
// many comparisons it spent getting there.
type SearchResult struct {
	Index      int
	Steps      int
	Path       []int
	SortTime   time.Duration
	SearchTime time.Duration
}

// Found reports whether the target was located.
func (r SearchResult) Found() bool {
	return r.Index >= 0
}

// LinearSearch scans data front to back. Index is -1 when target is absent,
// in which case Steps equals len(data).
func LinearSearch[T comparable](data []T, target T) SearchResult {
	start := time.Now()
	result := SearchResult{Index: -1}

	for i, item := range data {
		result.Steps++
		if item == target {
			result.Index = i
			break
		}
	}

	result.SearchTime = time.Since(start)
	return result
}

/*
BinarySearch halves a sorted slice until it hits target. Every midpoint
inspected counts as one step and is recorded in Path.
*/
func BinarySearch[T cmp.Ordered](sorted []T, target T) SearchResult {
	start := time.Now()
	result := SearchResult{Index: -1}

	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		result.Steps++
		result.Path = append(result.Path, mid)

		switch c := cmp.Compare(sorted[mid], target); {
		case c == 0:
			result.Index = mid
			result.SearchTime = time.Since(start)
			return result
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}

	result.SearchTime = time.Since(start)
	return result
}

// SortedBinarySearch sorts a copy of data first, so the sort cost of a
// single query on unsorted input shows up in SortTime. Index refers to the
// sorted copy.
func SortedBinarySearch[T cmp.Ordered](data []T, target T) SearchResult {
	start := time.Now()
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	sortTime := time.Since(start)

	result := BinarySearch(sorted, target)
	result.SortTime = sortTime

	return result
}
