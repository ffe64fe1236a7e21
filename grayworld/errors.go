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

package grayworld

import "errors"

var (
	// ErrInvalidDimensions is returned for a non-positive width or height.
	ErrInvalidDimensions = errors.New("grayworld: invalid dimensions")

	// ErrInvalidMode is returned for a Mode outside ModeMean and ModeMedian.
	ErrInvalidMode = errors.New("grayworld: invalid mode")

	// ErrInvalidTier is returned for a Tier value that does not exist.
	ErrInvalidTier = errors.New("grayworld: invalid tier")

	// ErrUnsupportedTier is returned when an explicit tier needs vectors
	// wider than the CPU provides.
	ErrUnsupportedTier = errors.New("grayworld: tier not supported by this CPU")

	// ErrUnsupportedFormat is returned by collaborators that cannot turn
	// their input into planar float32 RGB(A).
	ErrUnsupportedFormat = errors.New("grayworld: unsupported pixel format")

	// ErrFrameShape is returned when a frame does not match the Filter's size.
	ErrFrameShape = errors.New("grayworld: frame does not match filter dimensions")
)
