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

// Package math provides vectorized transcendental functions over hwy.Vec.
//
// # Functions
//
//   - Log(v) - natural logarithm, IEEE 754 exponent split plus an atanh series
//   - Exp(v) - e^x, range reduction by ln(2) plus a degree-6 polynomial
//
// Both run at the lane count of their input vector, so the same code serves
// every tier. Results agree with the standard library to a few ULP over the
// normal float32 range; callers that need bit-exact agreement with the
// scalar path must use the standard library instead.
//
// # Special Cases
//
//	Log(0) = -Inf, Log(x < 0) = NaN, Log(+Inf) = +Inf, Log(1) = 0
//	Exp(x > 88.72) = +Inf, Exp(x < -87.34) = 0
package math
