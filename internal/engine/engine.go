package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/clipforge/clipforge/internal/actions"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/storage"
)

// RenderRequest describes one render call.
type RenderRequest struct {
	// InputPath is the local media file to transform.
	InputPath string `validate:"required"`
	// Actions are applied in order within their stream.
	Actions []actions.Action
	// TrimStart and TrimDuration define an optional timeline trim
	// window. When both are zero, a window carried by a trim action is
	// used instead.
	TrimStart    float64 `validate:"gte=0"`
	TrimDuration float64 `validate:"gte=0"`
}

// RenderResult describes a successfully rendered output.
type RenderResult struct {
	OutputPath      string
	DurationSeconds float64
}

// Engine is the render façade: it probes the input once, compiles the
// action list, and runs a single external invocation. A render either
// succeeds once or fails; there are no retries at this level.
type Engine struct {
	exec     *Executor
	prober   *probe.Prober
	store    storage.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates an Engine.
func New(exec *Executor, prober *probe.Prober, store storage.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		exec:     exec,
		prober:   prober,
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// Render transforms req.InputPath according to req.Actions and returns
// the rendered output. The audio decision is made by a single probe up
// front so the compiler and the executor always agree on stream
// presence.
func (g *Engine) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if err := g.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid render request: %w", err)
	}

	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, req.InputPath)
	}

	hasAudio := g.prober.HasAudio(ctx, req.InputPath)
	chain := actions.Compile(req.Actions, hasAudio)

	seek, duration := req.TrimStart, req.TrimDuration
	if seek == 0 && duration == 0 {
		if s, d, ok := actions.TrimWindow(req.Actions); ok {
			seek, duration = s, d
		}
	}

	outputPath := g.store.NewFilePath("processed", ".mp4")

	g.logger.Info("rendering",
		slog.String("input", req.InputPath),
		slog.Int("actions", len(req.Actions)),
		slog.Bool("has_audio", hasAudio),
		slog.String("output", outputPath),
	)

	if err := g.exec.Render(ctx, RenderSpec{
		InputPath:       req.InputPath,
		Chain:           chain,
		SeekSeconds:     seek,
		DurationSeconds: duration,
		HasAudio:        hasAudio,
		OutputPath:      outputPath,
	}); err != nil {
		return nil, err
	}

	result := &RenderResult{
		OutputPath:      outputPath,
		DurationSeconds: g.prober.Duration(ctx, outputPath),
	}

	g.logger.Info("render complete",
		slog.String("output", result.OutputPath),
		slog.Float64("duration_sec", result.DurationSeconds),
	)

	return result, nil
}

// RenderStream fetches a remote stream to a temporary input, renders
// it, and removes the fetched copy on both success and failure paths.
func (g *Engine) RenderStream(ctx context.Context, streamURL string, req RenderRequest) (*RenderResult, error) {
	inputPath := g.store.NewFilePath("fetched", ".mp4")
	// The fetched copy is removed on success and failure alike, even
	// when the fetch itself leaves a partial file behind.
	defer func() {
		if err := g.store.Cleanup(context.WithoutCancel(ctx), []string{inputPath}); err != nil {
			g.logger.Warn("cleanup of fetched input failed",
				slog.String("path", inputPath),
				slog.String("error", err.Error()),
			)
		}
	}()

	if err := g.exec.Fetch(ctx, streamURL, inputPath); err != nil {
		return nil, err
	}

	req.InputPath = inputPath
	return g.Render(ctx, req)
}

// Fetch downloads a remote stream into outputPath. Unlike
// RenderStream, the caller owns the downloaded file.
func (g *Engine) Fetch(ctx context.Context, streamURL, outputPath string) error {
	return g.exec.Fetch(ctx, streamURL, outputPath)
}

// MergeAudio muxes a separate audio track onto a video and returns the
// merged output with its probed duration.
func (g *Engine) MergeAudio(ctx context.Context, videoPath, audioPath string) (*RenderResult, error) {
	for _, p := range []string{videoPath, audioPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, p)
		}
	}

	outputPath := g.store.NewFilePath("merged", ".mp4")
	if err := g.exec.MergeAudio(ctx, videoPath, audioPath, outputPath); err != nil {
		return nil, err
	}

	return &RenderResult{
		OutputPath:      outputPath,
		DurationSeconds: g.prober.Duration(ctx, outputPath),
	}, nil
}
