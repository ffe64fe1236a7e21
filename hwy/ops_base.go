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

import "math"

// This file provides pure Go implementations of the vector operations.
// Every operation works lane by lane over the active lanes of its operands;
// binary operations use the smaller lane count of the two.

// LoadN creates a vector of n lanes from the start of src.
// Lanes beyond len(src) are zero.
func LoadN[T Lanes](src []T, n int) Vec[T] {
	n = clampLanes(n)
	var v Vec[T]
	v.n = n
	copy(v.data[:n], src)
	return v
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.data[:n])
}

// SetN creates a vector of n lanes all set to the same value.
func SetN[T Lanes](value T, n int) Vec[T] {
	n = clampLanes(n)
	var v Vec[T]
	v.n = n
	for i := range n {
		v.data[i] = value
	}
	return v
}

// ZeroN creates a vector of n lanes set to zero.
func ZeroN[T Lanes](n int) Vec[T] {
	return Vec[T]{n: clampLanes(n)}
}

func clampLanes(n int) int {
	return max(0, min(n, MaxVecLanes))
}

func lanes2[T Lanes](a, b Vec[T]) int {
	return min(a.n, b.n)
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = a.data[i] + b.data[i]
	}
	return r
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = a.data[i] - b.data[i]
	}
	return r
}

// Mul performs element-wise multiplication.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = a.data[i] * b.data[i]
	}
	return r
}

// Div performs element-wise division.
func Div[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = a.data[i] / b.data[i]
	}
	return r
}

// MulAdd computes a*b + c element-wise.
func MulAdd[T Lanes](a, b, c Vec[T]) Vec[T] {
	n := min(a.n, b.n, c.n)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = a.data[i]*b.data[i] + c.data[i]
	}
	return r
}

// Min returns the element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = min(a.data[i], b.data[i])
	}
	return r
}

// Max returns the element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	n := lanes2(a, b)
	r := Vec[T]{n: n}
	for i := range n {
		r.data[i] = max(a.data[i], b.data[i])
	}
	return r
}

// Clamp limits every lane to [lo, hi]. NaN lanes become lo.
func Clamp[T Lanes](v, lo, hi Vec[T]) Vec[T] {
	n := min(v.n, lo.n, hi.n)
	r := Vec[T]{n: n}
	for i := range n {
		x := v.data[i]
		switch {
		case !(x > lo.data[i]):
			r.data[i] = lo.data[i]
		case x > hi.data[i]:
			r.data[i] = hi.data[i]
		default:
			r.data[i] = x
		}
	}
	return r
}

// Less returns a mask of lanes where a < b.
func Less[T Lanes](a, b Vec[T]) Mask[T] {
	n := lanes2(a, b)
	m := Mask[T]{n: n}
	for i := range n {
		m.bits[i] = a.data[i] < b.data[i]
	}
	return m
}

// Greater returns a mask of lanes where a > b.
func Greater[T Lanes](a, b Vec[T]) Mask[T] {
	n := lanes2(a, b)
	m := Mask[T]{n: n}
	for i := range n {
		m.bits[i] = a.data[i] > b.data[i]
	}
	return m
}

// Equal returns a mask of lanes where a == b.
func Equal[T Lanes](a, b Vec[T]) Mask[T] {
	n := lanes2(a, b)
	m := Mask[T]{n: n}
	for i := range n {
		m.bits[i] = a.data[i] == b.data[i]
	}
	return m
}

// IfThenElse selects yes where mask is set and no elsewhere.
func IfThenElse[T Lanes](mask Mask[T], yes, no Vec[T]) Vec[T] {
	n := min(mask.n, yes.n, no.n)
	r := Vec[T]{n: n}
	for i := range n {
		if mask.bits[i] {
			r.data[i] = yes.data[i]
		} else {
			r.data[i] = no.data[i]
		}
	}
	return r
}

// Merge selects a where mask is set and b elsewhere.
// It is IfThenElse with the mask last, matching the math kernels' reading order.
func Merge[T Lanes](a, b Vec[T], mask Mask[T]) Vec[T] {
	return IfThenElse(mask, a, b)
}

// ReduceSum returns the sum of all lanes.
func ReduceSum[T Lanes](v Vec[T]) T {
	var sum T
	for _, x := range v.data[:v.n] {
		sum += x
	}
	return sum
}

// ReduceMax returns the largest lane. It returns zero for an empty vector.
func ReduceMax[T Lanes](v Vec[T]) T {
	if v.n == 0 {
		var zero T
		return zero
	}
	m := v.data[0]
	for _, x := range v.data[1:v.n] {
		m = max(m, x)
	}
	return m
}

// RoundToEven rounds every lane to the nearest integer, ties to even.
func RoundToEven[T Floats](v Vec[T]) Vec[T] {
	r := Vec[T]{n: v.n}
	for i := range v.n {
		r.data[i] = T(math.RoundToEven(float64(v.data[i])))
	}
	return r
}

// ConvertToInt32 truncates every lane to int32.
func ConvertToInt32[T Floats](v Vec[T]) Vec[int32] {
	r := Vec[int32]{n: v.n}
	for i := range v.n {
		r.data[i] = int32(v.data[i])
	}
	return r
}

// ConvertToFloat converts int32 lanes to T.
func ConvertToFloat[T Floats](v Vec[int32]) Vec[T] {
	r := Vec[T]{n: v.n}
	for i := range v.n {
		r.data[i] = T(v.data[i])
	}
	return r
}

// GetExponent extracts the unbiased IEEE 754 exponent of every lane.
// Inputs must be positive normal numbers.
func GetExponent[T Floats](v Vec[T]) Vec[int32] {
	r := Vec[int32]{n: v.n}
	for i := range v.n {
		switch x := any(v.data[i]).(type) {
		case float32:
			r.data[i] = int32((math.Float32bits(x)>>23)&0xff) - 127
		case float64:
			r.data[i] = int32((math.Float64bits(x)>>52)&0x7ff) - 1023
		}
	}
	return r
}

// GetMantissa returns the significand of every lane scaled into [1, 2).
// Inputs must be positive normal numbers.
func GetMantissa[T Floats](v Vec[T]) Vec[T] {
	r := Vec[T]{n: v.n}
	for i := range v.n {
		switch x := any(v.data[i]).(type) {
		case float32:
			bits := math.Float32bits(x)&0x807fffff | 127<<23
			r.data[i] = T(math.Float32frombits(bits))
		case float64:
			bits := math.Float64bits(x)&0x800fffffffffffff | 1023<<52
			r.data[i] = T(math.Float64frombits(bits))
		}
	}
	return r
}

// Pow2 builds 2^k for every lane by writing k into the exponent field.
// k must lie within the normal exponent range of T.
func Pow2[T Floats](k Vec[int32]) Vec[T] {
	r := Vec[T]{n: k.n}
	var zero T
	for i := range k.n {
		switch any(zero).(type) {
		case float32:
			r.data[i] = T(math.Float32frombits(uint32(k.data[i]+127) << 23))
		case float64:
			r.data[i] = T(math.Float64frombits(uint64(int64(k.data[i])+1023) << 52))
		}
	}
	return r
}
