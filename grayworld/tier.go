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

	"github.com/ajroetker/go-grayworld/hwy"
)

// Tier selects the vector width the Filter runs at.
type Tier int

const (
	// TierAuto picks the widest tier the CPU supports.
	TierAuto Tier = iota

	// TierScalar processes one pixel at a time with the standard library's
	// log and exp.
	TierScalar

	// TierSSE2 processes 4 pixels per vector (128-bit).
	TierSSE2

	// TierAVX2 processes 8 pixels per vector (256-bit).
	TierAVX2

	// TierAVX512 processes 16 pixels per vector (512-bit).
	TierAVX512
)

var tierNames = [...]string{
	TierAuto:   "auto",
	TierScalar: "scalar",
	TierSSE2:   "sse2",
	TierAVX2:   "avx2",
	TierAVX512: "avx512",
}

// Tiers lists the concrete tiers from narrowest to widest.
var Tiers = []Tier{TierScalar, TierSSE2, TierAVX2, TierAVX512}

func (t Tier) valid() bool {
	return t >= TierAuto && t <= TierAVX512
}

// String returns the tier name used by ParseTier.
func (t Tier) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// tag is the vector width the tier runs at, nil for TierAuto.
func (t Tier) tag() hwy.Tag {
	switch t {
	case TierScalar:
		return hwy.ScalarTag[float32]{}
	case TierSSE2:
		return hwy.FixedTag128[float32]{}
	case TierAVX2:
		return hwy.FixedTag256[float32]{}
	case TierAVX512:
		return hwy.FixedTag512[float32]{}
	}
	return nil
}

// Lanes returns the number of float32 lanes per vector, 1 for the scalar
// tier and 0 for TierAuto.
func (t Tier) Lanes() int {
	tag := t.tag()
	if tag == nil {
		return 0
	}
	return hwy.LanesFor[float32](tag.Width())
}

// widthBytes is the vector register width the tier needs.
func (t Tier) widthBytes() int {
	if tag := t.tag(); tag != nil {
		return tag.Width()
	}
	return 0
}

// ParseTier accepts a tier name, case-insensitively. The register widths
// "128", "256" and "512" are accepted as aliases of the vector tiers, and
// "c" as an alias of "scalar".
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TierAuto, nil
	case "scalar", "c":
		return TierScalar, nil
	case "sse2", "128":
		return TierSSE2, nil
	case "avx2", "256":
		return TierAVX2, nil
	case "avx512", "512":
		return TierAVX512, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	v, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TierFromOpt maps the integer "opt" option of video filter plugins:
// -1 auto, 0 scalar, 1 sse2, 2 avx2, 3 avx512.
func TierFromOpt(opt int) (Tier, error) {
	if opt < -1 || opt > 3 {
		return 0, fmt.Errorf("%w: opt must be between -1..3, got %d", ErrInvalidTier, opt)
	}
	return Tier(opt + 1), nil
}

// SelectTier resolves requested against caps. TierAuto becomes the widest
// supported tier; an explicit tier is returned unchanged if caps supports it.
func SelectTier(requested Tier, caps hwy.Capabilities) (Tier, error) {
	if !requested.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTier, int(requested))
	}
	if requested == TierAuto {
		for i := len(Tiers) - 1; i > 0; i-- {
			if caps.Supports(Tiers[i].widthBytes()) {
				return Tiers[i], nil
			}
		}
		return TierScalar, nil
	}
	if !caps.Supports(requested.widthBytes()) {
		return 0, fmt.Errorf("%w: %s needs %d-byte vectors, %s provides %d",
			ErrUnsupportedTier, requested, requested.widthBytes(), caps.Level, caps.MaxWidth)
	}
	return requested, nil
}
