// Package probe extracts media metadata through ffprobe.
// Duration and audio-stream presence degrade to safe defaults on
// failure: duration is advisory and audio detection fails closed so
// that no audio filter is ever emitted against a missing stream.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"
)

// DefaultTimeout bounds one ffprobe invocation when no other ceiling
// is configured. Probing only reads metadata, so the ceiling is much
// shorter than a render's.
const DefaultTimeout = 30 * time.Second

// Prober runs ffprobe against local media files. Every invocation is
// bounded by a wall-clock timeout so a wedged probe fails instead of
// hanging its caller.
type Prober struct {
	ffprobePath string
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a Prober. If ffprobePath is empty, it defaults to
// "ffprobe" (found via PATH); a non-positive timeout falls back to
// DefaultTimeout.
func New(ffprobePath string, timeout time.Duration, logger *slog.Logger) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{ffprobePath: ffprobePath, timeout: timeout, logger: logger}
}

// Duration returns the container duration in seconds. On any invocation
// or parse failure it logs and returns 0; callers treat the value as
// advisory and must not branch correctness on it.
func (p *Prober) Duration(ctx context.Context, path string) float64 {
	res, err := p.Inspect(ctx, path)
	if err != nil {
		p.logger.Warn("probe duration failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return res.Duration
}

// HasAudio reports whether the file contains at least one audio stream.
// It returns false on failure so a broken probe can never cause audio
// filters to be emitted for a stream that may not exist.
func (p *Prober) HasAudio(ctx context.Context, path string) bool {
	res, err := p.Inspect(ctx, path)
	if err != nil {
		p.logger.Warn("probe audio detection failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return false
	}
	return res.HasAudio()
}

// Describe probes path once and returns a MediaDescriptor. Probe
// failures degrade to zero duration and no audio rather than an error.
func (p *Prober) Describe(ctx context.Context, path string) MediaDescriptor {
	res, err := p.Inspect(ctx, path)
	if err != nil {
		p.logger.Warn("probe failed, using defaults",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return MediaDescriptor{Path: path}
	}
	return MediaDescriptor{
		Path:            path,
		DurationSeconds: res.Duration,
		HasAudio:        res.HasAudio(),
	}
}

// Inspect runs a single ffprobe JSON call against path and returns the
// parsed result. Results are never cached; every call re-probes.
func (p *Prober) Inspect(ctx context.Context, path string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe %q: %w, stderr: %s", path, err, stderr.String())
	}

	return ParseJSON(stdout.Bytes())
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	res := &Result{
		Duration: parseFloat(raw.Format.Duration),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			res.VideoStreams = append(res.VideoStreams, VideoStream{
				Codec:      s.CodecName,
				PixFmt:     s.PixFmt,
				Width:      s.Width,
				Height:     s.Height,
				TimeBase:   s.TimeBase,
				RFrameRate: s.RFrameRate,
			})
		case "audio":
			res.AudioStreams = append(res.AudioStreams, AudioStream{
				Codec:      s.CodecName,
				Channels:   s.Channels,
				SampleRate: parseInt(s.SampleRate),
			})
		}
	}

	return res, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	PixFmt     string `json:"pix_fmt"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TimeBase   string `json:"time_base"`
	RFrameRate string `json:"r_frame_rate"`
	Channels   int    `json:"channels"`
	SampleRate string `json:"sample_rate"`
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
