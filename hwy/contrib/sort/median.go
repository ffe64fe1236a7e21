package sort

import "github.com/ajroetker/go-grayworld/hwy"

// Median returns the median of data, reordering data in place.
//
// For odd lengths it is the middle element. For even lengths it is the
// average of the element at rank n/2 and the largest element below it,
// i.e. the mean of the two middle elements. Median of an empty slice is 0.
func Median[T hwy.Floats](data []T) T {
	n := len(data)
	if n == 0 {
		return 0
	}
	mid := n / 2
	NthElement(data, mid)
	if n%2 == 1 {
		return data[mid]
	}
	return (Max(data[:mid], hwy.MaxVecLanes) + data[mid]) / 2
}

// Max returns the largest element of data, scanning lanes elements at a
// time. Max of an empty slice is 0.
func Max[T hwy.Lanes](data []T, lanes int) T {
	if len(data) == 0 {
		var zero T
		return zero
	}
	best := data[0]
	hwy.ProcessWithTail(len(data), lanes,
		func(offset int) {
			best = max(best, hwy.ReduceMax(hwy.LoadN(data[offset:], lanes)))
		},
		func(offset, count int) {
			for _, x := range data[offset : offset+count] {
				best = max(best, x)
			}
		},
	)
	return best
}
