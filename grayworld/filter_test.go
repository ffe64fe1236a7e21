package grayworld

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-grayworld/hwy"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"zeroWidth", Config{Width: 0, Height: 4}, ErrInvalidDimensions},
		{"negativeHeight", Config{Width: 4, Height: -1}, ErrInvalidDimensions},
		{"badMode", Config{Width: 4, Height: 4, Mode: Mode(7)}, ErrInvalidMode},
		{"badTier", Config{Width: 4, Height: 4, Tier: Tier(7)}, ErrInvalidTier},
		{"unsupportedTier", Config{
			Width: 4, Height: 4, Tier: TierAVX512,
			Capabilities: &hwy.Capabilities{Level: hwy.DispatchSSE2, MaxWidth: 16},
		}, ErrUnsupportedTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, f)
		})
	}
}

func TestNewResolvesTierAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f, err := New(Config{
		Width: 8, Height: 2, Mode: ModeMedian,
		Capabilities: &hwy.Capabilities{Level: hwy.DispatchAVX2, MaxWidth: 32},
		Logger:       logger,
	})
	require.NoError(t, err)
	assert.Equal(t, TierAVX2, f.Tier())
	assert.Equal(t, ModeMedian, f.Mode())
	assert.Equal(t, 8, f.Width())
	assert.Equal(t, 2, f.Height())
	assert.Contains(t, buf.String(), "tier=avx2")
	assert.Contains(t, buf.String(), "mode=median")
}

func TestNewDetectsCPU(t *testing.T) {
	f, err := New(Config{Width: 4, Height: 4})
	require.NoError(t, err)
	assert.NotEqual(t, TierAuto, f.Tier())
}

func TestGrayFrameIsUnchanged(t *testing.T) {
	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			f := newFilter(t, 4, 4, ModeMean, tier)
			src := newFrame(t, 4, 4, 3, 0, uniform(0.5, 0.5, 0.5))
			dst := newFrame(t, 4, 4, 3, 0, nil)

			bias, err := f.Process(dst, src)
			require.NoError(t, err)
			assert.InDelta(t, 0, bias.A, 5e-3)
			assert.InDelta(t, 0, bias.B, 5e-3)
			for i := range 3 {
				for _, v := range visible(dst.Plane(i)) {
					assert.InDelta(t, 0.5, v, roundTripTolerance)
				}
			}
		})
	}
}

// redOverCyan has three pure red rows above one pure cyan row.
func redOverCyan(_, y int) (float32, float32, float32) {
	if y < 3 {
		return 1, 0, 0
	}
	return 0, 1, 1
}

func TestMedianDiffersFromMean(t *testing.T) {
	_, redA, redB := Forward(1, 0, 0)
	_, cyanA, cyanB := Forward(0, 1, 1)

	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			src := newFrame(t, 4, 4, 3, 0, redOverCyan)

			median, err := newFilter(t, 4, 4, ModeMedian, tier).Estimate(src)
			require.NoError(t, err)
			mean, err := newFilter(t, 4, 4, ModeMean, tier).Estimate(src)
			require.NoError(t, err)

			// The red rows dominate the middle of the sorted row medians.
			assert.InDelta(t, redA, median.A, 1e-3)
			assert.InDelta(t, redB, median.B, 1e-3)

			assert.InDelta(t, 0.75*redA+0.25*cyanA, mean.A, 1e-3)
			assert.InDelta(t, 0.75*redB+0.25*cyanB, mean.B, 1e-3)
			assert.Greater(t, math.Abs(float64(median.A-mean.A)), 0.1)
		})
	}
}

// referenceMean computes the frame mean of both chroma axes in float64.
func referenceMean(src *image.Frame[float32]) (float64, float64) {
	m := func(mat *matrix3, x [3]float64) [3]float64 {
		var y [3]float64
		for i := range 3 {
			for j := range 3 {
				y[i] += float64(mat[i][j]) * x[j]
			}
		}
		return y
	}
	var sumA, sumB float64
	for y := range src.Height() {
		for x := range src.Width() {
			lms := m(&rgbToLMS, [3]float64{
				float64(src.R().At(x, y)), float64(src.G().At(x, y)), float64(src.B().At(x, y)),
			})
			for i, v := range lms {
				if v > 0 {
					lms[i] = math.Log(v)
				} else {
					lms[i] = float64(logSentinel)
				}
			}
			lab := m(&lmsToLab, lms)
			sumA += lab[1]
			sumB += lab[2]
		}
	}
	n := float64(src.Width() * src.Height())
	return sumA / n, sumB / n
}

func TestMeanMatchesReference(t *testing.T) {
	src := newFrame(t, 23, 7, 3, 5, randomPixels(3))
	wantA, wantB := referenceMean(src)
	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			bias, err := newFilter(t, 23, 7, ModeMean, tier).Estimate(src)
			require.NoError(t, err)
			assert.InDelta(t, wantA, bias.A, 1e-4)
			assert.InDelta(t, wantB, bias.B, 1e-4)
		})
	}
}

func TestMedianWithinRowMedianBounds(t *testing.T) {
	// Each row is one colour, and rows get steadily more red.
	px := func(_, y int) (float32, float32, float32) {
		v := float32(y) / 10
		return 0.2 + v*0.7, 0.5, 0.8 - v*0.7
	}
	src := newFrame(t, 9, 10, 3, 0, px)

	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for y := range 10 {
		_, a, _ := Forward(px(0, y))
		lo, hi = min(lo, a), max(hi, a)
	}

	for _, tier := range Tiers {
		bias, err := newFilter(t, 9, 10, ModeMedian, tier).Estimate(src)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, bias.A, lo-1e-4, tier.String())
		assert.LessOrEqual(t, bias.A, hi+1e-4, tier.String())
	}
}

func TestTiersAgree(t *testing.T) {
	approx := cmpopts.EquateApprox(1e-3, 1e-3)
	for _, mode := range []Mode{ModeMean, ModeMedian} {
		// Widths that leave a scalar tail for every vector width.
		for _, width := range []int{1, 5, 17, 33} {
			t.Run(fmt.Sprintf("%s/width%d", mode, width), func(t *testing.T) {
				src := newFrame(t, width, 6, 3, 3, randomPixels(int64(width)))

				ref := newFrame(t, width, 6, 3, 0, nil)
				refBias, err := newFilter(t, width, 6, mode, TierScalar).Process(ref, src)
				require.NoError(t, err)

				for _, tier := range Tiers[1:] {
					dst := newFrame(t, width, 6, 3, 0, nil)
					bias, err := newFilter(t, width, 6, mode, tier).Process(dst, src)
					require.NoError(t, err)

					if diff := cmp.Diff(refBias, bias, approx); diff != "" {
						t.Errorf("%s bias mismatch (-scalar +%s):\n%s", tier, tier, diff)
					}
					for i := range 3 {
						if diff := cmp.Diff(visible(ref.Plane(i)), visible(dst.Plane(i)), approx); diff != "" {
							t.Errorf("%s plane %d mismatch (-scalar +%s):\n%s", tier, i, tier, diff)
						}
					}
				}
			})
		}
	}
}

func TestZeroBiasReproducesInput(t *testing.T) {
	for _, tier := range Tiers {
		t.Run(tier.String(), func(t *testing.T) {
			src := newFrame(t, 13, 5, 3, 2, randomPixels(4))
			dst := newFrame(t, 13, 5, 3, 0, nil)
			f := newFilter(t, 13, 5, ModeMean, tier)
			require.NoError(t, f.ProcessWithBias(dst, src, Bias{}))

			for i := range 3 {
				want, got := visible(src.Plane(i)), visible(dst.Plane(i))
				for j := range want {
					assert.InDelta(t, want[j], got[j], roundTripTolerance, "plane %d pixel %d", i, j)
				}
			}
		})
	}
}

func TestOutputIsClamped(t *testing.T) {
	for _, tier := range Tiers {
		for _, bias := range []Bias{{A: 5, B: -5}, {A: -5, B: 5}} {
			t.Run(fmt.Sprintf("%s/%v", tier, bias), func(t *testing.T) {
				src := newFrame(t, 11, 3, 3, 0, func(x, y int) (float32, float32, float32) {
					if x%2 == 0 {
						return 1, 0, 0
					}
					return 0.1, 0.9, 0.3
				})
				dst := newFrame(t, 11, 3, 3, 0, nil)
				require.NoError(t, newFilter(t, 11, 3, ModeMean, tier).ProcessWithBias(dst, src, bias))

				sawEdge := false
				for i := range 3 {
					for _, v := range visible(dst.Plane(i)) {
						require.GreaterOrEqual(t, v, float32(0))
						require.LessOrEqual(t, v, float32(1))
						sawEdge = sawEdge || v == 0 || v == 1
					}
				}
				assert.True(t, sawEdge, "extreme bias should push pixels out of gamut")
			})
		}
	}
}

// requireInGamut fails on any NaN or out-of-range colour pixel.
func requireInGamut(t *testing.T, f *image.Frame[float32]) {
	t.Helper()
	for i := range 3 {
		for j, v := range visible(f.Plane(i)) {
			require.False(t, math.IsNaN(float64(v)), "plane %d pixel %d is NaN", i, j)
			require.GreaterOrEqual(t, v, float32(0), "plane %d pixel %d", i, j)
			require.LessOrEqual(t, v, float32(1), "plane %d pixel %d", i, j)
		}
	}
}

func TestClamp01MatchesVectorClamp(t *testing.T) {
	inputs := []float32{-1, 0, 0.5, 1, 2, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))}
	vec := hwy.Clamp(hwy.LoadN(inputs, len(inputs)), hwy.ZeroN[float32](len(inputs)), hwy.SetN[float32](1, len(inputs)))
	for i, x := range inputs {
		got := clamp01(x)
		assert.False(t, math.IsNaN(float64(got)), "clamp01(%v)", x)
		assert.Equal(t, vec.Lane(i), got, "clamp01(%v)", x)
	}
}

func TestHugeBiasStaysInGamut(t *testing.T) {
	// Biases this large overflow exp in the inverse transform, and the
	// LMS to RGB matrix then produces Inf-Inf.
	for _, tier := range Tiers {
		for _, bias := range []Bias{{A: -300}, {A: 300, B: -300}, {B: 400}} {
			t.Run(fmt.Sprintf("%s/%v", tier, bias), func(t *testing.T) {
				src := newFrame(t, 17, 6, 3, 1, func(x, y int) (float32, float32, float32) {
					if y < 2 {
						return -1, -1, 0.5
					}
					return 1, 0, 0
				})
				dst := newFrame(t, 17, 6, 3, 0, nil)
				require.NoError(t, newFilter(t, 17, 6, ModeMean, tier).ProcessWithBias(dst, src, bias))
				requireInGamut(t, dst)
			})
		}
	}
}

func TestNegativeInputStaysInGamut(t *testing.T) {
	tops := [][3]float32{{-1, -1, 0.5}, {-1, 0.5, -1}, {0.5, -1, -1}}
	levels := []float32{0.1, 0.5, 0.9}
	for _, tier := range Tiers {
		for _, mode := range []Mode{ModeMean, ModeMedian} {
			t.Run(fmt.Sprintf("%s/%s", tier, mode), func(t *testing.T) {
				f := newFilter(t, 4, 4, mode, tier)
				dst := newFrame(t, 4, 4, 3, 0, nil)
				for _, top := range tops {
					for _, r := range levels {
						for _, g := range levels {
							for _, b := range levels {
								src := newFrame(t, 4, 4, 3, 0, func(x, y int) (float32, float32, float32) {
									if y < 2 {
										return top[0], top[1], top[2]
									}
									return r, g, b
								})
								_, err := f.Process(dst, src)
								require.NoError(t, err)
								requireInGamut(t, dst)
							}
						}
					}
				}
			})
		}
	}
}

func TestTiersAgreeNearZero(t *testing.T) {
	approx := cmpopts.EquateApprox(1e-3, 1e-3)
	tiny := [][3]float32{
		{1e-39, 2e-39, 1e-40}, // subnormal
		{0x1p-126, 1e-30, 3e-38},
		{0, 1e-45, 0.5},
		{0.5, 0.4, 0.3},
	}
	for _, mode := range []Mode{ModeMean, ModeMedian} {
		for _, width := range []int{8, 19} {
			t.Run(fmt.Sprintf("%s/width%d", mode, width), func(t *testing.T) {
				src := newFrame(t, width, 2, 3, 0, func(x, y int) (float32, float32, float32) {
					p := tiny[(x+y)%len(tiny)]
					return p[0], p[1], p[2]
				})
				ref := newFrame(t, width, 2, 3, 0, nil)
				refBias, err := newFilter(t, width, 2, mode, TierScalar).Process(ref, src)
				require.NoError(t, err)

				for _, tier := range Tiers[1:] {
					dst := newFrame(t, width, 2, 3, 0, nil)
					bias, err := newFilter(t, width, 2, mode, tier).Process(dst, src)
					require.NoError(t, err)
					if diff := cmp.Diff(refBias, bias, approx); diff != "" {
						t.Errorf("%s bias mismatch (-scalar +%s):\n%s", tier, tier, diff)
					}
					for i := range 3 {
						if diff := cmp.Diff(visible(ref.Plane(i)), visible(dst.Plane(i)), approx); diff != "" {
							t.Errorf("%s plane %d mismatch (-scalar +%s):\n%s", tier, i, tier, diff)
						}
					}
				}
			})
		}
	}
}

func TestProcessInPlace(t *testing.T) {
	src := newFrame(t, 10, 4, 3, 0, randomPixels(5))
	want := newFrame(t, 10, 4, 3, 0, nil)
	f := newFilter(t, 10, 4, ModeMedian, TierAVX2)
	wantBias, err := f.Process(want, src)
	require.NoError(t, err)

	bias, err := f.Process(src, src)
	require.NoError(t, err)
	assert.Equal(t, wantBias, bias)
	for i := range 3 {
		assert.Equal(t, visible(want.Plane(i)), visible(src.Plane(i)))
	}
}

func TestProcessCopiesAlpha(t *testing.T) {
	src := newFrame(t, 6, 2, 4, 1, uniform(0.3, 0.6, 0.2))
	for y := range 2 {
		for x := range 6 {
			src.Alpha().Set(x, y, float32(x+y)/10)
		}
	}
	dst := newFrame(t, 6, 2, 4, 0, nil)
	_, err := newFilter(t, 6, 2, ModeMean, TierSSE2).Process(dst, src)
	require.NoError(t, err)
	assert.Equal(t, visible(src.Alpha()), visible(dst.Alpha()))

	// An RGB destination simply has nowhere to put alpha.
	rgb := newFrame(t, 6, 2, 3, 0, nil)
	_, err = newFilter(t, 6, 2, ModeMean, TierSSE2).Process(rgb, src)
	assert.NoError(t, err)
}

func TestFrameShapeErrors(t *testing.T) {
	f := newFilter(t, 8, 8, ModeMean, TierScalar)
	good := newFrame(t, 8, 8, 3, 0, uniform(0.5, 0.5, 0.5))
	small := newFrame(t, 4, 8, 3, 0, nil)

	_, err := f.Process(good, small)
	assert.ErrorIs(t, err, ErrFrameShape)
	_, err = f.Process(small, good)
	assert.ErrorIs(t, err, ErrFrameShape)
	_, err = f.Estimate(nil)
	assert.ErrorIs(t, err, ErrFrameShape)
	assert.ErrorIs(t, f.ProcessWithBias(good, small, Bias{}), ErrFrameShape)

	_, err = f.Estimate(&image.Frame[float32]{})
	assert.ErrorIs(t, err, image.ErrPlaneCount)
}

func TestEstimateMatchesProcess(t *testing.T) {
	src := newFrame(t, 16, 16, 3, 0, randomPixels(6))
	f := newFilter(t, 16, 16, ModeMean, TierAVX512)
	est, err := f.Estimate(src)
	require.NoError(t, err)
	got, err := f.Process(newFrame(t, 16, 16, 3, 0, nil), src)
	require.NoError(t, err)
	assert.Equal(t, est, got)
}

func BenchmarkProcess(b *testing.B) {
	src := newFrame(b, 640, 360, 3, 0, randomPixels(7))
	dst := newFrame(b, 640, 360, 3, 0, nil)
	for _, mode := range []Mode{ModeMean, ModeMedian} {
		for _, tier := range Tiers {
			b.Run(fmt.Sprintf("%s/%s", mode, tier), func(b *testing.B) {
				f := newFilter(b, 640, 360, mode, tier)
				for b.Loop() {
					if _, err := f.Process(dst, src); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
