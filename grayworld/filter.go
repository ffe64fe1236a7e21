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
	"log/slog"

	"github.com/ajroetker/go-grayworld/hwy"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
)

// Config describes a Filter.
type Config struct {
	// Width and Height are the frame dimensions every processed frame must have.
	Width, Height int

	Mode Mode
	Tier Tier

	// Capabilities overrides CPU detection when choosing the tier.
	// Nil means hwy.DetectCapabilities().
	Capabilities *hwy.Capabilities

	// Logger receives construction details at debug level.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// Filter corrects frames of one fixed size. Its scratch buffers are reused
// across frames, so a Filter must not be used from several goroutines at once.
type Filter struct {
	width, height int
	mode          Mode
	tier          Tier
	t             *transform
	s             scratch
	stats         statistic
}

// New validates cfg, resolves the tier and allocates the scratch buffers.
func New(cfg Config) (*Filter, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	if !cfg.Mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(cfg.Mode))
	}
	caps := hwy.DetectCapabilities()
	if cfg.Capabilities != nil {
		caps = *cfg.Capabilities
	}
	tier, err := SelectTier(cfg.Tier, caps)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		width:  cfg.Width,
		height: cfg.Height,
		mode:   cfg.Mode,
		tier:   tier,
		t:      newTransform(tier.Lanes()),
		s:      newScratch(cfg.Width, cfg.Height),
		stats:  newStatistic(cfg.Mode, cfg.Width, cfg.Height, tier.Lanes()),
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("grayworld filter created",
		slog.Int("width", f.width),
		slog.Int("height", f.height),
		slog.String("mode", f.mode.String()),
		slog.String("tier", f.tier.String()),
		slog.String("vector", f.tier.tag().Name()),
		slog.String("requested_tier", cfg.Tier.String()),
		slog.String("cpu", caps.Level.String()),
	)
	return f, nil
}

// Tier returns the resolved tier; never TierAuto.
func (f *Filter) Tier() Tier { return f.tier }

// Mode returns the statistic mode.
func (f *Filter) Mode() Mode { return f.mode }

// Width returns the frame width the Filter was built for.
func (f *Filter) Width() int { return f.width }

// Height returns the frame height the Filter was built for.
func (f *Filter) Height() int { return f.height }

func (f *Filter) checkFrame(name string, fr *image.Frame[float32]) error {
	if fr == nil {
		return fmt.Errorf("%w: %s frame is nil", ErrFrameShape, name)
	}
	if err := fr.Validate(); err != nil {
		return fmt.Errorf("%s frame: %w", name, err)
	}
	if fr.Width() != f.width || fr.Height() != f.height {
		return fmt.Errorf("%w: %s frame is %dx%d, filter is %dx%d",
			ErrFrameShape, name, fr.Width(), fr.Height(), f.width, f.height)
	}
	return nil
}

// Estimate measures the colour cast of src without writing anything.
func (f *Filter) Estimate(src *image.Frame[float32]) (Bias, error) {
	if err := f.checkFrame("source", src); err != nil {
		return Bias{}, err
	}
	convert(f.t, &f.s, f.stats, src)
	return f.stats.aggregate(), nil
}

// Process estimates the colour cast of src, removes it and writes the result
// into dst. When both frames carry alpha, it is copied unchanged. dst may be
// src. The returned Bias is the offset that was removed.
func (f *Filter) Process(dst, src *image.Frame[float32]) (Bias, error) {
	if err := f.checkFrame("destination", dst); err != nil {
		return Bias{}, err
	}
	bias, err := f.Estimate(src)
	if err != nil {
		return Bias{}, err
	}
	correct(f.t, &f.s, bias, dst)
	return bias, f.copyAlpha(dst, src)
}

// ProcessWithBias removes the given bias instead of an estimated one.
// With a zero Bias the output equals the input up to transform precision
// and clamping.
func (f *Filter) ProcessWithBias(dst, src *image.Frame[float32], bias Bias) error {
	if err := f.checkFrame("destination", dst); err != nil {
		return err
	}
	if err := f.checkFrame("source", src); err != nil {
		return err
	}
	for y := range f.height {
		l, ca, cb := f.s.rows(y)
		f.t.forwardRow(src.R().RowSlice(y), src.G().RowSlice(y), src.B().RowSlice(y), l, ca, cb)
	}
	correct(f.t, &f.s, bias, dst)
	return f.copyAlpha(dst, src)
}

func (f *Filter) copyAlpha(dst, src *image.Frame[float32]) error {
	if !src.HasAlpha() || !dst.HasAlpha() || src.Alpha() == dst.Alpha() {
		return nil
	}
	return image.CopyPlane(dst.Alpha(), src.Alpha())
}
