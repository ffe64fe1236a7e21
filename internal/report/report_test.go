package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ajroetker/go-grayworld/grayworld"
)

func sample() *Report {
	return &Report{
		RunID:   "0b8e4c1e-4a55-4c39-9a2d-4a0a6f3c9e51",
		Created: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Mode:    grayworld.ModeMedian,
		Tier:    grayworld.TierAVX2,
		Entries: []Entry{
			{Input: "a.png", Output: "out/a.png", Width: 4, Height: 2, Bias: grayworld.Bias{A: 0.125, B: -0.5}},
			{Input: "b.gif", Error: "b.gif: unsupported pixel format"},
		},
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.msgpack")
	want := sample()
	require.NoError(t, WriteFile(path, want))

	got, err := ReadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Entry{want.Entries[1]}, got.Failed())
}

func TestWireNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample()))

	var raw map[string]any
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "median", raw["mode"])
	assert.Equal(t, "avx2", raw["tier"])

	entries := raw["entries"].([]any)
	first := entries[0].(map[string]any)
	assert.Equal(t, "a.png", first["input"])
	assert.Equal(t, map[string]any{"a": float32(0.125), "b": float32(-0.5)}, first["bias"])
	assert.NotContains(t, first, "error")
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0xc1}))
	assert.Error(t, err)
}
