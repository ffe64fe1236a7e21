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
	"math"

	"github.com/ajroetker/go-grayworld/hwy"
	hmath "github.com/ajroetker/go-grayworld/hwy/contrib/math"
)

// logSentinel replaces the logarithm of LMS components <= 0.
// Its exponential underflows to 0 on the way back.
const logSentinel float32 = -1024.0

// matrix3 is a row-major 3x3 float32 matrix.
type matrix3 [3][3]float32

// Log-opponent transform coefficients. They are not exact inverses of each
// other; a forward/inverse round trip is accurate to about 1e-2.
var (
	rgbToLMS = matrix3{
		{0.3811, 0.5783, 0.0402},
		{0.1967, 0.7244, 0.0782},
		{0.0241, 0.1288, 0.8444},
	}
	lmsToLab = matrix3{
		{0.5774, 0.5774, 0.5774},
		{0.40825, 0.40825, -0.816458},
		{0.707, -0.707, 0.0},
	}
	labToLMS = matrix3{
		{0.57735, 0.40825, 0.707},
		{0.57735, 0.40825, -0.707},
		{0.57735, -0.8165, 0.0},
	}
	lmsToRGB = matrix3{
		{4.4679, -3.5873, 0.1193},
		{-1.2186, 2.3809, -0.1624},
		{0.0497, -0.2439, 1.2045},
	}
)

func (m *matrix3) apply(x0, x1, x2 float32) (y0, y1, y2 float32) {
	y0 = m[0][0]*x0 + m[0][1]*x1 + m[0][2]*x2
	y1 = m[1][0]*x0 + m[1][1]*x1 + m[1][2]*x2
	y2 = m[2][0]*x0 + m[2][1]*x1 + m[2][2]*x2
	return
}

func logOrSentinel(x float32) float32 {
	if x > 0 {
		return float32(math.Log(float64(x)))
	}
	return logSentinel
}

// Forward converts linear RGB to the log-opponent space (l, a, b), where l is
// luminance-like and a, b are the chroma axes. Non-positive LMS components
// take a fixed sentinel instead of their logarithm.
func Forward(r, g, b float32) (l, ca, cb float32) {
	s0, s1, s2 := rgbToLMS.apply(r, g, b)
	return lmsToLab.apply(logOrSentinel(s0), logOrSentinel(s1), logOrSentinel(s2))
}

// Inverse converts a log-opponent triple back to linear RGB. It does not clamp.
func Inverse(l, ca, cb float32) (r, g, b float32) {
	s0, s1, s2 := labToLMS.apply(l, ca, cb)
	return lmsToRGB.apply(
		float32(math.Exp(float64(s0))),
		float32(math.Exp(float64(s1))),
		float32(math.Exp(float64(s2))),
	)
}

// vecMatrix is a matrix3 with every coefficient broadcast to lanes.
type vecMatrix [3][3]hwy.Vec[float32]

func broadcast(m *matrix3, lanes int) vecMatrix {
	var v vecMatrix
	for i := range 3 {
		for j := range 3 {
			v[i][j] = hwy.SetN(m[i][j], lanes)
		}
	}
	return v
}

func (m *vecMatrix) apply(x0, x1, x2 hwy.Vec[float32]) (y0, y1, y2 hwy.Vec[float32]) {
	y0 = hwy.MulAdd(m[0][2], x2, hwy.MulAdd(m[0][1], x1, hwy.Mul(m[0][0], x0)))
	y1 = hwy.MulAdd(m[1][2], x2, hwy.MulAdd(m[1][1], x1, hwy.Mul(m[1][0], x0)))
	y2 = hwy.MulAdd(m[2][2], x2, hwy.MulAdd(m[2][1], x1, hwy.Mul(m[2][0], x0)))
	return
}

// transform holds the broadcast constants for one lane count.
type transform struct {
	lanes                          int
	toLMS, toLab, fromLab, fromLMS vecMatrix
	zero, one, sentinel            hwy.Vec[float32]
}

func newTransform(lanes int) *transform {
	return &transform{
		lanes:    lanes,
		toLMS:    broadcast(&rgbToLMS, lanes),
		toLab:    broadcast(&lmsToLab, lanes),
		fromLab:  broadcast(&labToLMS, lanes),
		fromLMS:  broadcast(&lmsToRGB, lanes),
		zero:     hwy.ZeroN[float32](lanes),
		one:      hwy.SetN[float32](1, lanes),
		sentinel: hwy.SetN(logSentinel, lanes),
	}
}

func (t *transform) logOrSentinel(x hwy.Vec[float32]) hwy.Vec[float32] {
	return hwy.IfThenElse(hwy.Greater(x, t.zero), hmath.Log(x), t.sentinel)
}

// forwardVec is Forward over one vector of pixels.
func (t *transform) forwardVec(r, g, b hwy.Vec[float32]) (l, ca, cb hwy.Vec[float32]) {
	s0, s1, s2 := t.toLMS.apply(r, g, b)
	return t.toLab.apply(t.logOrSentinel(s0), t.logOrSentinel(s1), t.logOrSentinel(s2))
}

// inverseVec is Inverse over one vector of pixels.
func (t *transform) inverseVec(l, ca, cb hwy.Vec[float32]) (r, g, b hwy.Vec[float32]) {
	s0, s1, s2 := t.fromLab.apply(l, ca, cb)
	return t.fromLMS.apply(hmath.Exp(s0), hmath.Exp(s1), hmath.Exp(s2))
}
