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

// Package grayworld removes a global colour cast from planar float32 RGB
// frames using the grayworld assumption: the average chroma of a scene is
// neutral, so any measured average chroma is a cast to subtract.
//
// Every frame goes through three stages:
//
//  1. Convert: each pixel is moved into a log-opponent space (one luminance
//     axis, two chroma axes) and per-row chroma statistics are collected.
//  2. Aggregate: the row statistics are reduced to one Bias pair, either the
//     frame mean or the median of the row medians.
//  3. Correct: the bias is subtracted from both chroma axes, pixels are moved
//     back to RGB and clamped to [0, 1].
//
// A Filter owns the scratch buffers for one frame size and processes one
// frame at a time. Use one Filter per goroutine, or Batch, which keeps one
// Filter per worker:
//
//	f, err := grayworld.New(grayworld.Config{Width: w, Height: h, Mode: grayworld.ModeMedian})
//	if err != nil {
//	    return err
//	}
//	bias, err := f.Process(dst, src)
//
// The vector tiers (4, 8 and 16 lanes) run the same row kernels as the scalar
// tier with a scalar tail, and agree with it to about 1e-3.
package grayworld
