package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/MeKo-Tech/noisefield/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateField_StatusLine(t *testing.T) {
	cfg := testConfig(t, nil)
	output := filepath.Join(t.TempDir(), "field.png")

	var buf bytes.Buffer
	status := worker.NewProgress(1, true)
	status.SetOutput(&buf)

	require.NoError(t, generateField(context.Background(), cfg, 42, output, status, quietLogger()))
	assert.Equal(t, image.Rect(0, 0, 16, 12), decodePNG(t, output).Bounds())

	line := buf.String()
	sampling := strings.Index(line, "\r"+noise.MessageSampling)
	blending := strings.Index(line, "\rBlending 4 octaves")
	generated := strings.Index(line, "\r"+noise.MessageGenerated)
	require.NotEqual(t, -1, sampling, "status line: %q", line)
	assert.Less(t, sampling, blending, "status line: %q", line)
	assert.Less(t, blending, generated, "status line: %q", line)
	assert.True(t, strings.HasSuffix(line, "\n"), "finished status should end the line")
	assert.Equal(t, 1, strings.Count(line, "\n"), "only completion ends the line")

	assert.Equal(t, noise.MessageGenerated, status.Stage())
}

func TestGenerateField_QuietStatus(t *testing.T) {
	cfg := testConfig(t, nil)
	output := filepath.Join(t.TempDir(), "field.png")

	var buf bytes.Buffer
	status := worker.NewProgress(1, false)
	status.SetOutput(&buf)

	require.NoError(t, generateField(context.Background(), cfg, 42, output, status, quietLogger()))
	assert.Zero(t, buf.Len())
	assert.Equal(t, noise.MessageGenerated, status.Stage())
}

func TestGenerateField_Cancelled(t *testing.T) {
	cfg := testConfig(t, nil)
	output := filepath.Join(t.TempDir(), "field.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := generateField(ctx, cfg, 42, output, worker.NewProgress(1, false), quietLogger())
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, output)
}

func TestStageError(t *testing.T) {
	cause := errors.New("boom")

	events := &noise.EventLog{}
	assert.Same(t, cause, stageError(events, cause), "nothing reported leaves the error alone")

	events.Report(false, noise.MessageSampling)
	events.Report(false, "Blending 3 octaves")
	err := stageError(events, cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `last stage: "Blending 3 octaves"`)
}

func TestSignalContext(t *testing.T) {
	ctx, stop := signalContext(quietLogger())
	defer stop()

	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(os.Interrupt))

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt did not cancel the context")
	}
}

func TestSignalContext_Stop(t *testing.T) {
	ctx, stop := signalContext(quietLogger())
	stop()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("stop should cancel the context")
	}
}
