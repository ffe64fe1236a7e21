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
	"fmt"
	"strings"
)

// Mode selects the chroma statistic used to estimate the cast.
type Mode int

const (
	// ModeMean uses the frame-wide mean of each chroma axis.
	ModeMean Mode = iota

	// ModeMedian uses the median of the per-row medians of each chroma axis.
	// It is an approximation of the frame median that needs only row-sized
	// selections.
	ModeMedian
)

func (m Mode) valid() bool {
	return m == ModeMean || m == ModeMedian
}

// String returns "mean" or "median".
func (m Mode) String() string {
	switch m {
	case ModeMean:
		return "mean"
	case ModeMedian:
		return "median"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "mean" or "median", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean":
		return ModeMean, nil
	case "median":
		return ModeMedian, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ModeFromCC maps the integer "cc" option of video filter plugins:
// 0 mean, 1 median.
func ModeFromCC(cc int) (Mode, error) {
	m := Mode(cc)
	if !m.valid() {
		return 0, fmt.Errorf("%w: cc must be 0 or 1, got %d", ErrInvalidMode, cc)
	}
	return m, nil
}
