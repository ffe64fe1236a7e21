package math

// =============================================================================
// Constants for mathematical functions
// =============================================================================

// Float32 constants for Exp
var (
	expLn2Hi_f32  float32 = 0.693359375
	expLn2Lo_f32  float32 = -2.12194440e-4
	expInvLn2_f32 float32 = 1.44269504088896341

	// Overflow/underflow thresholds
	expOverflow_f32  float32 = 88.72283905206835
	expUnderflow_f32 float32 = -87.33654475055310

	// Polynomial coefficients for exp(r) on [-ln(2)/2, ln(2)/2]
	// Taylor series: 1 + r + r²/2! + r³/3! + r⁴/4! + r⁵/5! + r⁶/6!
	expC1_f32 float32 = 1.0
	expC2_f32 float32 = 0.5
	expC3_f32 float32 = 0.16666666666666666
	expC4_f32 float32 = 0.041666666666666664
	expC5_f32 float32 = 0.008333333333333333
	expC6_f32 float32 = 0.001388888888888889

	expOne_f32  float32 = 1.0
	expZero_f32 float32 = 0.0
)

// Float32 constants for Log
var (
	logC1_f32 float32 = 1.0
	logC2_f32 float32 = 0.3333333333333367565
	logC3_f32 float32 = 0.1999999999970470954
	logC4_f32 float32 = 0.1428571437183119574
	logC5_f32 float32 = 0.1111109921607489198

	logLn2Hi_f32 float32 = 0.693359375
	logLn2Lo_f32 float32 = -2.12194440e-4
	logOne_f32   float32 = 1.0
	logTwo_f32   float32 = 2.0
	logSqrt2_f32 float32 = 1.414
	logHalf_f32  float32 = 0.5
)
