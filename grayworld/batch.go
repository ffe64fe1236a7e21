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
	"context"
	"errors"
	"fmt"

	"github.com/ajroetker/go-grayworld/hwy"
	"github.com/ajroetker/go-grayworld/hwy/contrib/image"
	"github.com/ajroetker/go-grayworld/hwy/contrib/workerpool"
)

// Job is one frame to correct. Dst may equal Src.
type Job struct {
	Dst, Src *image.Frame[float32]
}

// Batch corrects many frames of one size in parallel. Every worker owns a
// private Filter, so no buffers are shared between frames in flight.
type Batch struct {
	pool *workerpool.Pool[*Filter]
	tier Tier
	mode Mode
}

// NewBatch builds workers Filters from cfg. workers <= 0 means GOMAXPROCS.
func NewBatch(cfg Config, workers int) (*Batch, error) {
	caps := hwy.DetectCapabilities()
	if cfg.Capabilities != nil {
		caps = *cfg.Capabilities
	}
	tier, err := SelectTier(cfg.Tier, caps)
	if err != nil {
		return nil, err
	}
	cfg.Tier = tier
	cfg.Capabilities = &caps

	pool, err := workerpool.New(workers, func(int) (*Filter, error) {
		return New(cfg)
	})
	if err != nil {
		return nil, err
	}
	return &Batch{pool: pool, tier: tier, mode: cfg.Mode}, nil
}

// Workers returns the number of Filters in the batch.
func (b *Batch) Workers() int { return b.pool.NumWorkers() }

// Tier returns the tier every worker runs.
func (b *Batch) Tier() Tier { return b.tier }

// Mode returns the statistic mode every worker uses.
func (b *Batch) Mode() Mode { return b.mode }

// Run processes jobs and returns the bias removed from each, in job order.
// Cancellation of ctx is observed between frames; jobs not started when ctx
// is done are skipped and reported with ctx.Err(). All job errors are joined.
// Run must not be called concurrently on one Batch.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]Bias, error) {
	biases := make([]Bias, len(jobs))
	errs := make([]error, len(jobs))
	b.pool.ForEach(len(jobs), func(f *Filter, i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = fmt.Errorf("job %d: %w", i, err)
			return
		}
		bias, err := f.Process(jobs[i].Dst, jobs[i].Src)
		if err != nil {
			errs[i] = fmt.Errorf("job %d: %w", i, err)
			return
		}
		biases[i] = bias
	})
	return biases, errors.Join(errs...)
}

// Close stops the workers. A closed Batch still runs, sequentially.
func (b *Batch) Close() {
	b.pool.Close()
}
