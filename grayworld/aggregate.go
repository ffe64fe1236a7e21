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
	"github.com/ajroetker/go-grayworld/hwy/contrib/sort"
)

// Bias is the chroma offset removed from every pixel of a frame.
type Bias struct {
	A float32 `json:"a" msgpack:"a" yaml:"a"`
	B float32 `json:"b" msgpack:"b" yaml:"b"`
}

// statistic collects per-row chroma summaries and reduces them to a Bias.
// The implementation is chosen once from the Filter's Mode.
type statistic interface {
	// addRow summarizes row y; a and b hold the row's chroma values.
	addRow(y int, a, b []float32)
	// aggregate reduces the summaries of all rows.
	aggregate() Bias
}

func newStatistic(mode Mode, width, height, lanes int) statistic {
	if mode == ModeMedian {
		return &medianStat{
			rowA: make([]float32, height),
			rowB: make([]float32, height),
			work: make([]float32, max(width, height)),
		}
	}
	return &meanStat{
		lanes: lanes,
		sumA:  make([]float32, height),
		sumB:  make([]float32, height),
		count: make([]int, height),
	}
}

// meanStat keeps per-row sums and pixel counts.
type meanStat struct {
	lanes      int
	sumA, sumB []float32
	count      []int
}

func (m *meanStat) addRow(y int, a, b []float32) {
	m.sumA[y], m.count[y] = sumRow(a, m.lanes)
	m.sumB[y], _ = sumRow(b, m.lanes)
}

// aggregate divides the sum of the row sums by the number of pixels.
// The cross-row sum is kept in float64.
func (m *meanStat) aggregate() Bias {
	var sumA, sumB float64
	pixels := 0
	for y := range m.sumA {
		sumA += float64(m.sumA[y])
		sumB += float64(m.sumB[y])
		pixels += m.count[y]
	}
	if pixels == 0 {
		return Bias{}
	}
	return Bias{
		A: float32(sumA / float64(pixels)),
		B: float32(sumB / float64(pixels)),
	}
}

// sumRow adds a row lanes at a time. Vector body and scalar tail both count
// the pixels they visit.
func sumRow(row []float32, lanes int) (float32, int) {
	acc := hwy.ZeroN[float32](lanes)
	var tail float32
	count := 0
	hwy.ProcessWithTail(len(row), lanes,
		func(i int) {
			acc = hwy.Add(acc, hwy.LoadN(row[i:], lanes))
			count += lanes
		},
		func(i, n int) {
			for _, x := range row[i : i+n] {
				tail += x
			}
			count += n
		},
	)
	return hwy.ReduceSum(acc) + tail, count
}

// medianStat keeps one median per row for each chroma axis.
type medianStat struct {
	rowA, rowB []float32
	work       []float32 // selection buffer, reordered freely
}

func (m *medianStat) addRow(y int, a, b []float32) {
	m.rowA[y] = m.median(a)
	m.rowB[y] = m.median(b)
}

// aggregate returns the median of the row medians of each axis.
func (m *medianStat) aggregate() Bias {
	return Bias{A: m.median(m.rowA), B: m.median(m.rowB)}
}

// median selects on a copy so the caller's values stay in place.
func (m *medianStat) median(values []float32) float32 {
	w := m.work[:len(values)]
	copy(w, values)
	return sort.Median(w)
}
