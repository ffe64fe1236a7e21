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

// scratch is one allocation of width*height*3 floats viewed as the three
// unpadded log-opponent planes.
type scratch struct {
	width int
	buf   []float32
	l     []float32
	a     []float32
	b     []float32
}

func newScratch(width, height int) scratch {
	n := width * height
	buf := make([]float32, 3*n)
	return scratch{
		width: width,
		buf:   buf,
		l:     buf[:n:n],
		a:     buf[n : 2*n : 2*n],
		b:     buf[2*n:],
	}
}

// rows returns row y of each plane.
func (s *scratch) rows(y int) (l, a, b []float32) {
	lo, hi := y*s.width, (y+1)*s.width
	return s.l[lo:hi], s.a[lo:hi], s.b[lo:hi]
}

// forwardRow transforms one row of pixels into the scratch row views.
func (t *transform) forwardRow(r, g, b, l, ca, cb []float32) {
	n := t.lanes
	hwy.ProcessWithTail(len(r), n,
		func(i int) {
			vl, va, vb := t.forwardVec(hwy.LoadN(r[i:], n), hwy.LoadN(g[i:], n), hwy.LoadN(b[i:], n))
			hwy.Store(vl, l[i:])
			hwy.Store(va, ca[i:])
			hwy.Store(vb, cb[i:])
		},
		func(i, count int) {
			for j := i; j < i+count; j++ {
				l[j], ca[j], cb[j] = Forward(r[j], g[j], b[j])
			}
		},
	)
}

// convert writes the forward transform of src into s and hands every
// finished row's chroma to stats.
func convert(t *transform, s *scratch, stats statistic, src *image.Frame[float32]) {
	for y := range src.Height() {
		l, ca, cb := s.rows(y)
		t.forwardRow(src.R().RowSlice(y), src.G().RowSlice(y), src.B().RowSlice(y), l, ca, cb)
		stats.addRow(y, ca, cb)
	}
}
