package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutor_Defaults(t *testing.T) {
	e := NewExecutor("", 0, nil)
	assert.Equal(t, "ffmpeg", e.ffmpegPath)
	assert.Equal(t, DefaultTimeout, e.timeout)
}

func TestExecutor_MissingBinary(t *testing.T) {
	e := NewExecutor("/nonexistent/ffmpeg", time.Second, testLogger())

	err := e.Render(context.Background(), RenderSpec{
		InputPath:  "in.mp4",
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, KindEncode, cmdErr.Kind)
}

func TestExecutor_Timeout(t *testing.T) {
	skipIfNoFFmpeg(t)

	// A timeout that expires before ffmpeg can finish is reported as
	// an encode failure, never a hang.
	e := NewExecutor("", time.Nanosecond, testLogger())

	input := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0600))

	err := e.Render(context.Background(), RenderSpec{
		InputPath:  input,
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, KindEncode, cmdErr.Kind)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCommandError_Excerpt(t *testing.T) {
	long := strings.Repeat("x", stderrExcerptLimit*3)
	err := newCommandError(KindStitch, []string{"-i", "list.txt"}, long, errors.New("exit status 1"))

	assert.Len(t, err.Stderr, stderrExcerptLimit)
	assert.Contains(t, err.Error(), "stitch failed")
	assert.Equal(t, "exit status 1", err.Unwrap().Error())
}
