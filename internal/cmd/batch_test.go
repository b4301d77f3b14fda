package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	cfg := testConfig(t, nil)
	dir := t.TempDir()

	results, err := runBatch(context.Background(), cfg, batchOptions{
		outputDir: dir,
		count:     3,
		workers:   2,
	}, quietLogger())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, int64(42+i), r.Task.Seed)
		assert.FileExists(t, r.Path)
	}
	assert.Equal(t, filepath.Join(dir, "field_0001.png"), results[1].Path)

	// A batch field matches a single render with the same seed.
	single := filepath.Join(t.TempDir(), "single.png")
	require.NoError(t, renderField(context.Background(), cfg, 43, single, nil, quietLogger()))

	want, err := os.ReadFile(single)
	require.NoError(t, err)
	got, err := os.ReadFile(results[1].Path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunBatch_InvalidCount(t *testing.T) {
	cfg := testConfig(t, nil)
	_, err := runBatch(context.Background(), cfg, batchOptions{outputDir: t.TempDir()}, quietLogger())
	assert.Error(t, err)
}

func TestRunBatch_Failures(t *testing.T) {
	cfg := testConfig(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := runBatch(ctx, cfg, batchOptions{outputDir: t.TempDir(), count: 2, workers: 1}, quietLogger())
	require.Error(t, err)
	assert.Len(t, results, 2)

	results, err = runBatch(ctx, cfg, batchOptions{outputDir: t.TempDir(), count: 2, workers: 1, allowFailures: true}, quietLogger())
	require.NoError(t, err)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
