package hwy

import (
	"os"
	"strconv"
)

// DispatchLevel represents the SIMD instruction set detected on the host.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD, pure Go implementation.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 instructions (x86-64 baseline, 128-bit).
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 instructions (256-bit SIMD).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 instructions (512-bit SIMD).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit SIMD).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Capabilities describes which vector widths the host can run.
type Capabilities struct {
	// Level is the widest instruction set detected.
	Level DispatchLevel

	// MaxWidth is the widest usable vector register in bytes; 0 means scalar only.
	MaxWidth int
}

// Supports reports whether a vector of widthBytes bytes can run on the host.
// Width 0 (scalar) is always supported.
func (c Capabilities) Supports(widthBytes int) bool {
	return widthBytes <= c.MaxWidth
}

// currentLevel is the detected SIMD level for this runtime.
// Set by init() from DetectCapabilities.
var currentLevel DispatchLevel

// currentWidth is the SIMD register width in bytes for the current level.
var currentWidth int

// currentName is the human-readable name of the current SIMD level.
var currentName string

func init() {
	caps := DetectCapabilities()
	currentLevel = caps.Level
	currentWidth = caps.MaxWidth
	currentName = caps.Level.String()
}

// DetectCapabilities queries the CPU for supported vector widths.
// HWY_NO_SIMD forces scalar-only capabilities.
func DetectCapabilities() Capabilities {
	if NoSimdEnv() {
		return Capabilities{Level: DispatchScalar}
	}
	return detectCPUFeatures()
}

// CurrentLevel returns the SIMD instruction set detected at startup.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the SIMD register width in bytes.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512, 0 for scalar.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current SIMD target.
// For example: "avx2", "neon", "scalar".
func CurrentName() string {
	return currentName
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, only the scalar tier is reported as available.
// This is useful for testing and debugging.
func NoSimdEnv() bool {
	val := os.Getenv("HWY_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
