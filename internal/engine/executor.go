// Package engine drives the external media engine: it compiles edit
// actions into a single ffmpeg invocation per render, concatenates
// rendered clips, and fetches remote inputs. Arguments are always
// passed as a vector; user-influenced text is never interpolated into
// a shell string.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/clipforge/clipforge/internal/actions"
)

// DefaultTimeout bounds one external invocation when no other ceiling
// is configured.
const DefaultTimeout = 2 * time.Minute

// Executor assembles and runs ffmpeg commands with a bounded
// wall-clock timeout per invocation.
type Executor struct {
	ffmpegPath string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewExecutor creates an Executor. If ffmpegPath is empty it defaults
// to "ffmpeg" (found via PATH); a non-positive timeout falls back to
// DefaultTimeout.
func NewExecutor(ffmpegPath string, timeout time.Duration, logger *slog.Logger) *Executor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{ffmpegPath: ffmpegPath, timeout: timeout, logger: logger}
}

// RenderSpec describes one render invocation.
type RenderSpec struct {
	InputPath string
	Chain     actions.FilterChain
	// SeekSeconds and DurationSeconds realize the timeline trim window
	// as stream-level seek flags. Zero values emit no flags.
	SeekSeconds     float64
	DurationSeconds float64
	HasAudio        bool
	OutputPath      string
}

// Render runs one transcode. The output is re-encoded at a constant
// quality preset; audio is re-encoded to AAC when present and the
// audio chain is dropped entirely for video-only inputs.
func (e *Executor) Render(ctx context.Context, spec RenderSpec) error {
	args := []string{"-y", "-i", spec.InputPath}

	if spec.SeekSeconds > 0 {
		args = append(args, "-ss", formatSeconds(spec.SeekSeconds))
	}
	if spec.DurationSeconds > 0 {
		args = append(args, "-t", formatSeconds(spec.DurationSeconds))
	}

	if len(spec.Chain.VideoFilters) > 0 {
		args = append(args, "-vf", spec.Chain.VideoExpr())
	}

	audioCodec := "copy"
	if spec.HasAudio {
		audioCodec = "aac"
		if len(spec.Chain.AudioFilters) > 0 {
			args = append(args, "-af", spec.Chain.AudioExpr())
		}
	} else {
		args = append(args, "-an")
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", audioCodec,
		spec.OutputPath,
	)

	return e.run(ctx, KindEncode, args, spec.OutputPath)
}

// run executes ffmpeg with the given argument vector under the
// configured timeout and validates that outputPath exists and is
// non-empty afterwards. A timeout, a non-zero exit, and an empty or
// missing output all produce a CommandError of the given kind.
func (e *Executor) run(ctx context.Context, kind Kind, args []string, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("running external engine",
		slog.String("kind", string(kind)),
		slog.Any("args", args),
	)

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", err, ctx.Err())
		}
		return newCommandError(kind, args, stderr.String(), err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return newCommandError(kind, args, stderr.String(),
			fmt.Errorf("no output file created: %w", err))
	}
	if info.Size() == 0 {
		return newCommandError(kind, args, stderr.String(),
			errors.New("output file is empty"))
	}

	return nil
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
