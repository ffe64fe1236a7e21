package math

import (
	stdmath "math"

	"github.com/ajroetker/go-grayworld/hwy"
)

// Exp computes e^x for each lane of v using full-range polynomial
// approximation with range reduction and IEEE 754 reconstruction.
//
// Algorithm:
// 1. Range reduction: x = k*ln(2) + r, where |r| <= ln(2)/2
// 2. Polynomial approximation: e^r ≈ 1 + r + r²/2! + r³/3! + ...
// 3. Reconstruction: e^x = 2^k * e^r using IEEE 754 bit manipulation
//
// Inputs below the underflow threshold flush to zero, which is what callers
// feeding large negative sentinels rely on.
func Exp[T hwy.Floats](x hwy.Vec[T]) hwy.Vec[T] {
	lanes := x.NumLanes()

	overflow := hwy.SetN(T(expOverflow_f32), lanes)
	underflow := hwy.SetN(T(expUnderflow_f32), lanes)
	one := hwy.SetN(T(expOne_f32), lanes)
	zero := hwy.SetN(T(expZero_f32), lanes)
	inf := hwy.SetN(T(stdmath.Inf(1)), lanes)
	invLn2 := hwy.SetN(T(expInvLn2_f32), lanes)
	ln2Hi := hwy.SetN(T(expLn2Hi_f32), lanes)
	ln2Lo := hwy.SetN(T(expLn2Lo_f32), lanes)

	c1 := hwy.SetN(T(expC1_f32), lanes)
	c2 := hwy.SetN(T(expC2_f32), lanes)
	c3 := hwy.SetN(T(expC3_f32), lanes)
	c4 := hwy.SetN(T(expC4_f32), lanes)
	c5 := hwy.SetN(T(expC5_f32), lanes)
	c6 := hwy.SetN(T(expC6_f32), lanes)

	// Check overflow/underflow
	overflowMask := hwy.Greater(x, overflow)
	underflowMask := hwy.Less(x, underflow)
	numMask := hwy.Equal(x, x)

	// Clamp before reduction so 2^k stays representable in the masked lanes.
	xc := hwy.Clamp(x, underflow, overflow)

	// Range reduction: k = round(x / ln(2)), r = x - k * ln(2)
	kFloat := hwy.RoundToEven(hwy.Mul(xc, invLn2))

	// r = x - k*ln(2) using high/low split for precision
	r := hwy.Sub(xc, hwy.Mul(kFloat, ln2Hi))
	r = hwy.Sub(r, hwy.Mul(kFloat, ln2Lo))

	// Polynomial approximation using Horner's method
	// p = 1 + r*(1 + r*(0.5 + r*(1/6 + r*(1/24 + r*(1/120 + r/720)))))
	p := hwy.MulAdd(c6, r, c5)
	p = hwy.MulAdd(p, r, c4)
	p = hwy.MulAdd(p, r, c3)
	p = hwy.MulAdd(p, r, c2)
	p = hwy.MulAdd(p, r, c1)
	p = hwy.MulAdd(p, r, one)

	// Scale by 2^k. k can reach 128 at the overflow threshold, so split it
	// into two factors that are both representable.
	k := hwy.ConvertToInt32(kFloat)
	kHalf := hwy.ConvertToInt32(hwy.RoundToEven(hwy.Mul(kFloat, hwy.SetN(T(0.5), lanes))))
	kRest := hwy.ConvertToInt32(hwy.Sub(hwy.ConvertToFloat[T](k), hwy.ConvertToFloat[T](kHalf)))
	result := hwy.Mul(hwy.Mul(p, hwy.Pow2[T](kHalf)), hwy.Pow2[T](kRest))

	// Handle special cases
	result = hwy.Merge(inf, result, overflowMask)
	result = hwy.Merge(zero, result, underflowMask)
	return hwy.Merge(result, x, numMask)
}
