// Package sort provides selection primitives over float slices.
//
// # Algorithm
//
// NthElement is an introselect: median-of-3 / sampled pivots with 3-way
// (Dutch National Flag) partitioning, insertion sort for small ranges and a
// heapsort fallback once the recursion budget (2*log2(n)) is exhausted, so
// the worst case stays O(n log n) while the expected case is O(n).
//
// Median builds on NthElement with the even-length rule used throughout the
// grayworld pipeline: the upper middle element averaged with the largest
// element of the lower half.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-grayworld/hwy/contrib/sort"
//
//	func RowMedian(row []float32) float32 {
//	    return sort.Median(row) // reorders row
//	}
package sort
