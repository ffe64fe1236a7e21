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

package image

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-grayworld/hwy"
)

var (
	// ErrPlaneShape is returned when a buffer cannot hold the requested plane
	// or when planes of one frame differ in size.
	ErrPlaneShape = errors.New("image: invalid plane shape")

	// ErrPlaneCount is returned for frames with other than 3 or 4 planes.
	ErrPlaneCount = errors.New("image: frame needs 3 or 4 planes")
)

// Plane is a single-channel 2D array with stride elements per row.
// Elements between width and stride are padding and are not part of the image.
type Plane[T hwy.Lanes] struct {
	pix    []T
	width  int
	height int
	stride int // elements per row (includes padding)
}

// NewPlane creates a plane with rows padded to a multiple of hwy.MaxVecLanes.
// Non-positive dimensions yield an empty plane.
func NewPlane[T hwy.Lanes](width, height int) *Plane[T] {
	if width <= 0 || height <= 0 {
		return &Plane[T]{}
	}
	stride := hwy.AlignedSize(width, hwy.MaxVecLanes)
	return &Plane[T]{
		pix:    make([]T, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// WrapPlane views pix as a plane without copying. The last row only needs
// width elements, so len(pix) must be at least (height-1)*stride + width.
func WrapPlane[T hwy.Lanes](pix []T, width, height, stride int) (*Plane[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrPlaneShape, width, height)
	}
	if stride < width {
		return nil, fmt.Errorf("%w: stride %d < width %d", ErrPlaneShape, stride, width)
	}
	if need := (height-1)*stride + width; len(pix) < need {
		return nil, fmt.Errorf("%w: buffer has %d elements, need %d", ErrPlaneShape, len(pix), need)
	}
	return &Plane[T]{pix: pix, width: width, height: height, stride: stride}, nil
}

// Width returns the plane width in pixels.
func (p *Plane[T]) Width() int {
	return p.width
}

// Height returns the plane height in pixels.
func (p *Plane[T]) Height() int {
	return p.height
}

// RowSlice returns a mutable slice for the specified row,
// limited to the actual plane width (excluding padding).
func (p *Plane[T]) RowSlice(y int) []T {
	if y < 0 || y >= p.height || p.pix == nil {
		return nil
	}
	start := y * p.stride
	return p.pix[start : start+p.width]
}

// At returns the value at position (x, y).
func (p *Plane[T]) At(x, y int) T {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.pix == nil {
		var zero T
		return zero
	}
	return p.pix[y*p.stride+x]
}

// Set sets the value at position (x, y).
func (p *Plane[T]) Set(x, y int, value T) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.pix == nil {
		return
	}
	p.pix[y*p.stride+x] = value
}

// SameSize returns true if both planes have the same dimensions.
func SameSize[T, U hwy.Lanes](a *Plane[T], b *Plane[U]) bool {
	return a.width == b.width && a.height == b.height
}

// CopyPlane copies the visible pixels of src into dst row by row.
// Strides may differ; sizes may not.
func CopyPlane[T hwy.Lanes](dst, src *Plane[T]) error {
	if !SameSize(dst, src) {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrPlaneShape,
			src.width, src.height, dst.width, dst.height)
	}
	for y := range src.height {
		copy(dst.RowSlice(y), src.RowSlice(y))
	}
	return nil
}

// Frame bundles three colour planes (R, G, B) and an optional alpha plane,
// all the same size.
type Frame[T hwy.Lanes] struct {
	planes []*Plane[T]
}

// NewFrame allocates a frame of numPlanes (3 or 4) padded planes.
func NewFrame[T hwy.Lanes](width, height, numPlanes int) (*Frame[T], error) {
	if numPlanes != 3 && numPlanes != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrPlaneCount, numPlanes)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrPlaneShape, width, height)
	}
	planes := make([]*Plane[T], numPlanes)
	for i := range planes {
		planes[i] = NewPlane[T](width, height)
	}
	return &Frame[T]{planes: planes}, nil
}

// FrameOf assembles a frame from existing planes in R, G, B[, A] order.
func FrameOf[T hwy.Lanes](planes ...*Plane[T]) (*Frame[T], error) {
	f := &Frame[T]{planes: planes}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the plane count and that every plane matches the first.
func (f *Frame[T]) Validate() error {
	if len(f.planes) != 3 && len(f.planes) != 4 {
		return fmt.Errorf("%w: got %d", ErrPlaneCount, len(f.planes))
	}
	for i, p := range f.planes {
		if p == nil || p.pix == nil {
			return fmt.Errorf("%w: plane %d is empty", ErrPlaneShape, i)
		}
		if !SameSize(p, f.planes[0]) {
			return fmt.Errorf("%w: plane %d is %dx%d, plane 0 is %dx%d", ErrPlaneShape,
				i, p.width, p.height, f.planes[0].width, f.planes[0].height)
		}
	}
	return nil
}

// NumPlanes returns 3 or 4.
func (f *Frame[T]) NumPlanes() int {
	return len(f.planes)
}

// Plane returns plane i, or nil when out of range.
func (f *Frame[T]) Plane(i int) *Plane[T] {
	if i < 0 || i >= len(f.planes) {
		return nil
	}
	return f.planes[i]
}

// R returns the red plane.
func (f *Frame[T]) R() *Plane[T] { return f.planes[0] }

// G returns the green plane.
func (f *Frame[T]) G() *Plane[T] { return f.planes[1] }

// B returns the blue plane.
func (f *Frame[T]) B() *Plane[T] { return f.planes[2] }

// Alpha returns the alpha plane, or nil for an RGB frame.
func (f *Frame[T]) Alpha() *Plane[T] {
	return f.Plane(3)
}

// HasAlpha reports whether the frame carries a fourth plane.
func (f *Frame[T]) HasAlpha() bool {
	return len(f.planes) == 4
}

// Width returns the frame width (all planes have the same size).
func (f *Frame[T]) Width() int {
	return f.planes[0].Width()
}

// Height returns the frame height.
func (f *Frame[T]) Height() int {
	return f.planes[0].Height()
}
