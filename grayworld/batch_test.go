package grayworld

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-grayworld/hwy"
)

func TestBatchMatchesSequentialFilter(t *testing.T) {
	const w, h, n = 19, 7, 12
	cfg := Config{Width: w, Height: h, Mode: ModeMedian, Tier: TierAVX2, Capabilities: allTiers}

	b, err := NewBatch(cfg, 4)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, 4, b.Workers())
	assert.Equal(t, TierAVX2, b.Tier())
	assert.Equal(t, ModeMedian, b.Mode())

	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Src: newFrame(t, w, h, 3, 1, randomPixels(int64(i))), Dst: newFrame(t, w, h, 3, 0, nil)}
	}
	biases, err := b.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, biases, n)

	f := newFilter(t, w, h, ModeMedian, TierAVX2)
	for i, job := range jobs {
		want := newFrame(t, w, h, 3, 0, nil)
		bias, err := f.Process(want, job.Src)
		require.NoError(t, err)
		assert.Equal(t, bias, biases[i], "job %d", i)
		for p := range 3 {
			assert.Equal(t, visible(want.Plane(p)), visible(job.Dst.Plane(p)), "job %d plane %d", i, p)
		}
	}
}

func TestBatchResolvesAutoOnce(t *testing.T) {
	caps := hwy.Capabilities{Level: hwy.DispatchSSE2, MaxWidth: 16}
	b, err := NewBatch(Config{Width: 4, Height: 4, Capabilities: &caps}, 2)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, TierSSE2, b.Tier())
}

func TestBatchConfigErrors(t *testing.T) {
	_, err := NewBatch(Config{Width: 0, Height: 4}, 2)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewBatch(Config{Width: 4, Height: 4, Tier: Tier(12)}, 2)
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestBatchCanceled(t *testing.T) {
	b, err := NewBatch(Config{Width: 4, Height: 4, Capabilities: allTiers}, 2)
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := []Job{
		{Src: newFrame(t, 4, 4, 3, 0, uniform(0.5, 0.5, 0.5)), Dst: newFrame(t, 4, 4, 3, 0, nil)},
		{Src: newFrame(t, 4, 4, 3, 0, uniform(0.5, 0.5, 0.5)), Dst: newFrame(t, 4, 4, 3, 0, nil)},
	}
	_, err = b.Run(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchReportsFrameErrors(t *testing.T) {
	b, err := NewBatch(Config{Width: 4, Height: 4, Capabilities: allTiers}, 2)
	require.NoError(t, err)
	defer b.Close()

	jobs := []Job{
		{Src: newFrame(t, 4, 4, 3, 0, uniform(0.5, 0.5, 0.5)), Dst: newFrame(t, 4, 4, 3, 0, nil)},
		{Src: newFrame(t, 5, 4, 3, 0, nil), Dst: newFrame(t, 4, 4, 3, 0, nil)},
	}
	biases, err := b.Run(context.Background(), jobs)
	assert.ErrorIs(t, err, ErrFrameShape)
	assert.ErrorContains(t, err, "job 1")
	assert.InDelta(t, 0, biases[0].A, 5e-3)
}
