// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hwy

// ProcessWithTail is the loop shape shared by every vector kernel: full
// vectors first, then one call for the remainder.
//
// It calls:
//   - fullFn(offset) for each full vector of lanes elements
//   - tailFn(offset, count) once for the tail if size is not a multiple of lanes
//
// With lanes <= 1 there are no vectors and tailFn receives the whole range,
// which is how scalar kernels reuse the same code.
//
// Example:
//
//	hwy.ProcessWithTail(len(data), lanes,
//	    func(offset int) {
//	        v := hwy.LoadN(data[offset:], lanes)
//	        hwy.Store(hwy.Add(v, v), output[offset:])
//	    },
//	    func(offset, count int) {
//	        for i := offset; i < offset+count; i++ {
//	            output[i] = data[i] + data[i]
//	        }
//	    },
//	)
func ProcessWithTail(size, lanes int, fullFn func(offset int), tailFn func(offset, count int)) {
	if size <= 0 {
		return
	}
	if lanes <= 1 {
		tailFn(0, size)
		return
	}

	// Process full vectors
	fullVectors := size / lanes
	for i := range fullVectors {
		fullFn(i * lanes)
	}

	// Process tail if any
	remaining := size % lanes
	if remaining > 0 {
		tailFn(fullVectors*lanes, remaining)
	}
}

// AlignedSize rounds up size to the next multiple of lanes.
// This is useful for allocating buffers that will be processed with SIMD.
func AlignedSize(size, lanes int) int {
	if lanes <= 1 {
		return size
	}
	return ((size + lanes - 1) / lanes) * lanes
}

// IsAligned returns true if size is a multiple of lanes.
func IsAligned(size, lanes int) bool {
	if lanes <= 1 {
		return true
	}
	return size%lanes == 0
}
