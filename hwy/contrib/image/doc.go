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

// Package image provides planar 2D image types with strided rows.
//
// Plane[T] stores one channel with stride >= width elements per row. A plane
// either owns rows padded to the widest vector width (NewPlane) or wraps an
// externally owned buffer (WrapPlane), such as a frame handed over by a
// video host.
//
// Frame[T] bundles three colour planes and an optional alpha plane of the
// same size:
//
//	frame, err := image.NewFrame[float32](1920, 1080, 3)
//	if err != nil {
//	    return err
//	}
//	for y := range frame.Height() {
//	    r, g, b := frame.R().RowSlice(y), frame.G().RowSlice(y), frame.B().RowSlice(y)
//	    // process one row of each plane
//	}
package image
