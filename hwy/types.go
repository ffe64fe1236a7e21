// Package hwy provides the portable vector layer used by the grayworld
// pipeline.
//
// It follows the Highway C++ library's design philosophy: kernels are written
// once against Vec[T] and run at whatever lane count the caller picked. Unlike
// Highway, the lane count is not a global property of the process: every
// vector carries its own lane count, so several tiers (4, 8 or 16 float32
// lanes) can coexist in one binary and be compared against each other.
//
// Basic usage:
//
//	lanes := hwy.LanesFor[float32](hwy.FixedTag256[float32]{}.Width())
//	a := hwy.LoadN(data1, lanes)
//	b := hwy.LoadN(data2, lanes)
//	hwy.Store(hwy.Add(a, b), output)
package hwy

// MaxVecLanes is the largest lane count a Vec can hold: 512 bits of float32.
const MaxVecLanes = 16

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}

// Vec is a portable vector handle of up to MaxVecLanes elements.
//
// The lanes live in a fixed array so vectors are plain values: passing and
// returning them never allocates.
//
// Vec instances should not be created directly; use LoadN, SetN or ZeroN.
type Vec[T Lanes] struct {
	data [MaxVecLanes]T
	n    int
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Lane returns the value of lane i.
func (v Vec[T]) Lane(i int) T {
	return v.data[i]
}

// Mask represents the result of a comparison operation.
// It can be used with IfThenElse and Merge to perform conditional operations.
//
// Mask instances should not be created directly; use comparison operations
// like Equal, Less or Greater instead.
type Mask[T Lanes] struct {
	bits [MaxVecLanes]bool
	n    int
}
