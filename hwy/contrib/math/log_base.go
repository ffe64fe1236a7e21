package math

import (
	stdmath "math"

	"github.com/ajroetker/go-grayworld/hwy"
)

// Log computes ln(x) (natural logarithm) for each lane of v.
//
// Algorithm: log(x) = log(2^e * m) = e*ln(2) + log(m), where m ∈ [1, 2)
// For log(m), we use: let y = (m-1)/(m+1), then log(m) = 2*(y + y³/3 + y⁵/5 + ...)
//
// Special cases: log(0)=-Inf, log(neg)=NaN, log(+Inf)=+Inf, log(1)=0, log(NaN)=NaN
func Log[T hwy.Floats](x hwy.Vec[T]) hwy.Vec[T] {
	lanes := x.NumLanes()

	one := hwy.SetN(T(logOne_f32), lanes)
	two := hwy.SetN(T(logTwo_f32), lanes)
	zero := hwy.ZeroN[T](lanes)
	ln2Hi := hwy.SetN(T(logLn2Hi_f32), lanes)
	ln2Lo := hwy.SetN(T(logLn2Lo_f32), lanes)
	negInf := hwy.SetN(T(stdmath.Inf(-1)), lanes)
	posInf := hwy.SetN(T(stdmath.Inf(1)), lanes)
	nan := hwy.SetN(T(stdmath.NaN()), lanes)

	// Polynomial coefficients for atanh-based log
	c1 := hwy.SetN(T(logC1_f32), lanes)
	c2 := hwy.SetN(T(logC2_f32), lanes)
	c3 := hwy.SetN(T(logC3_f32), lanes)
	c4 := hwy.SetN(T(logC4_f32), lanes)
	c5 := hwy.SetN(T(logC5_f32), lanes)

	// Handle special cases first
	zeroMask := hwy.Equal(x, zero)
	negMask := hwy.Less(x, zero)
	oneMask := hwy.Equal(x, one)
	infMask := hwy.Equal(x, posInf)
	numMask := hwy.Equal(x, x)

	// Subnormals have no implicit leading bit; scale them into the normal
	// range and take the shift back out of the exponent.
	limit, scale, shift := 0x1p-126, 0x1p24, 24.0
	var elem T
	if _, ok := any(elem).(float64); ok {
		limit, scale, shift = 0x1p-1022, 0x1p54, 54.0
	}
	subnormal := hwy.Less(x, hwy.SetN(T(limit), lanes))
	xn := hwy.Merge(hwy.Mul(x, hwy.SetN(T(scale), lanes)), x, subnormal)

	// Extract exponent and mantissa using IEEE 754 bit manipulation
	e := hwy.GetExponent(xn)
	m := hwy.GetMantissa(xn) // Returns mantissa in [1, 2)

	// For better accuracy near 1, adjust if m > sqrt(2)
	mLarge := hwy.Greater(m, hwy.SetN(T(logSqrt2_f32), lanes))
	mAdjusted := hwy.Merge(hwy.Mul(m, hwy.SetN(T(logHalf_f32), lanes)), m, mLarge)

	eFloat := hwy.ConvertToFloat[T](e)
	eFloat = hwy.Merge(hwy.Sub(eFloat, hwy.SetN(T(shift), lanes)), eFloat, subnormal)
	eAdjusted := hwy.Merge(hwy.Add(eFloat, one), eFloat, mLarge)

	// Compute log(m) using y = (m-1)/(m+1), log(m) = 2*(y + y³/3 + y⁵/5 + ...)
	y := hwy.Div(hwy.Sub(mAdjusted, one), hwy.Add(mAdjusted, one))
	y2 := hwy.Mul(y, y)

	// Polynomial: 1 + y²/3 + y⁴/5 + y⁶/7 + y⁸/9
	poly := hwy.MulAdd(c5, y2, c4)
	poly = hwy.MulAdd(poly, y2, c3)
	poly = hwy.MulAdd(poly, y2, c2)
	poly = hwy.MulAdd(poly, y2, c1)
	logM := hwy.Mul(hwy.Mul(two, y), poly)

	// log(x) = e*ln(2) + log(m)
	result := hwy.Add(hwy.MulAdd(eAdjusted, ln2Hi, logM), hwy.Mul(eAdjusted, ln2Lo))

	result = hwy.Merge(negInf, result, zeroMask)
	result = hwy.Merge(nan, result, negMask)
	result = hwy.Merge(zero, result, oneMask)
	result = hwy.Merge(posInf, result, infMask)
	return hwy.Merge(result, x, numMask)
}
