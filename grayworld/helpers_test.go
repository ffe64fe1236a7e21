package grayworld

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-grayworld/hwy"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
)

// allTiers pretends the CPU runs every vector width so all tiers are testable.
var allTiers = &hwy.Capabilities{Level: hwy.DispatchAVX512, MaxWidth: 64}

type pixelFunc func(x, y int) (r, g, b float32)

func uniform(r, g, b float32) pixelFunc {
	return func(int, int) (float32, float32, float32) { return r, g, b }
}

func randomPixels(seed int64) pixelFunc {
	rng := rand.New(rand.NewSource(seed))
	cache := map[[2]int][3]float32{}
	return func(x, y int) (float32, float32, float32) {
		k := [2]int{x, y}
		p, ok := cache[k]
		if !ok {
			p = [3]float32{rng.Float32(), rng.Float32(), rng.Float32()}
			cache[k] = p
		}
		return p[0], p[1], p[2]
	}
}

// newFrame builds a frame whose planes have stride width+pad, so row padding
// is exercised alongside the visible pixels.
func newFrame(t testing.TB, width, height, planes, pad int, px pixelFunc) *image.Frame[float32] {
	t.Helper()
	stride := width + pad
	ps := make([]*image.Plane[float32], planes)
	for i := range ps {
		p, err := image.WrapPlane(make([]float32, stride*height), width, height, stride)
		require.NoError(t, err)
		ps[i] = p
	}
	if px != nil {
		for y := range height {
			for x := range width {
				r, g, b := px(x, y)
				ps[0].Set(x, y, r)
				ps[1].Set(x, y, g)
				ps[2].Set(x, y, b)
			}
		}
	}
	f, err := image.FrameOf(ps...)
	require.NoError(t, err)
	return f
}

func newFilter(t testing.TB, width, height int, mode Mode, tier Tier) *Filter {
	t.Helper()
	f, err := New(Config{Width: width, Height: height, Mode: mode, Tier: tier, Capabilities: allTiers})
	require.NoError(t, err)
	return f
}

// visible returns the pixels of a plane without padding.
func visible(p *image.Plane[float32]) []float32 {
	out := make([]float32, 0, p.Width()*p.Height())
	for y := range p.Height() {
		out = append(out, p.RowSlice(y)...)
	}
	return out
}
