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

import "unsafe"

// Tag represents a vector size tag that determines how many lanes
// are used in SIMD operations.
type Tag interface {
	// Width returns the width in bytes (16 for 128-bit, 32 for 256-bit, etc.)
	// A width of 0 means scalar code.
	Width() int

	// Name returns a human-readable name for this tag ("128bit", "256bit", etc.)
	Name() string
}

// LanesFor returns how many T values fit in a vector of widthBytes bytes,
// capped at MaxVecLanes. A width of 0 yields 1 lane (scalar).
func LanesFor[T Lanes](widthBytes int) int {
	var dummy T
	size := int(unsafe.Sizeof(dummy))
	if widthBytes <= 0 || size == 0 {
		return 1
	}
	return max(1, min(widthBytes/size, MaxVecLanes))
}

// ScalarTag selects plain scalar code.
type ScalarTag[T Lanes] struct{}

// Width returns 0.
func (ScalarTag[T]) Width() int {
	return 0
}

// Name returns "scalar".
func (ScalarTag[T]) Name() string {
	return "scalar"
}

// FixedTag128 forces 128-bit SIMD operations (SSE2, NEON).
type FixedTag128[T Lanes] struct{}

// Width returns 16 bytes (128 bits).
func (FixedTag128[T]) Width() int {
	return 16
}

// Name returns "128bit".
func (FixedTag128[T]) Name() string {
	return "128bit"
}

// FixedTag256 forces 256-bit SIMD operations (AVX2).
type FixedTag256[T Lanes] struct{}

// Width returns 32 bytes (256 bits).
func (FixedTag256[T]) Width() int {
	return 32
}

// Name returns "256bit".
func (FixedTag256[T]) Name() string {
	return "256bit"
}

// FixedTag512 forces 512-bit SIMD operations (AVX-512).
type FixedTag512[T Lanes] struct{}

// Width returns 64 bytes (512 bits).
func (FixedTag512[T]) Width() int {
	return 64
}

// Name returns "512bit".
func (FixedTag512[T]) Name() string {
	return "512bit"
}
