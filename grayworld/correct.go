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

import (
	"github.com/ajroetker/go-grayworld/hwy"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
)

// clamp01 follows hwy.Clamp: NaN becomes 0.
func clamp01(x float32) float32 {
	switch {
	case !(x > 0):
		return 0
	case x > 1:
		return 1
	}
	return x
}

// correctRow removes bias from one scratch row, converts it back to RGB and
// writes the clamped result.
func (t *transform) correctRow(l, ca, cb []float32, bias Bias, r, g, b []float32) {
	n := t.lanes
	biasA := hwy.SetN(bias.A, n)
	biasB := hwy.SetN(bias.B, n)
	hwy.ProcessWithTail(len(l), n,
		func(i int) {
			vr, vg, vb := t.inverseVec(
				hwy.LoadN(l[i:], n),
				hwy.Sub(hwy.LoadN(ca[i:], n), biasA),
				hwy.Sub(hwy.LoadN(cb[i:], n), biasB),
			)
			hwy.Store(hwy.Clamp(vr, t.zero, t.one), r[i:])
			hwy.Store(hwy.Clamp(vg, t.zero, t.one), g[i:])
			hwy.Store(hwy.Clamp(vb, t.zero, t.one), b[i:])
		},
		func(i, count int) {
			for j := i; j < i+count; j++ {
				rr, gg, bb := Inverse(l[j], ca[j]-bias.A, cb[j]-bias.B)
				r[j], g[j], b[j] = clamp01(rr), clamp01(gg), clamp01(bb)
			}
		},
	)
}

// correct writes every colour pixel of dst from the scratch planes.
// The alpha plane is not touched.
func correct(t *transform, s *scratch, bias Bias, dst *image.Frame[float32]) {
	for y := range dst.Height() {
		l, ca, cb := s.rows(y)
		t.correctRow(l, ca, cb, bias, dst.R().RowSlice(y), dst.G().RowSlice(y), dst.B().RowSlice(y))
	}
}
