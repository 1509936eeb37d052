package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/storage"
)

// ClipRef refers to an already-rendered clip by its exposed URL or a
// plain local path.
type ClipRef struct {
	Ref string
}

// Stitcher concatenates rendered clips into one output file using the
// engine's concat demuxer. Clips sharing codec parameters are joined
// by stream copy; otherwise the stitch falls back to a re-encode.
type Stitcher struct {
	exec   *Executor
	prober *probe.Prober
	store  storage.Store
	// strict turns an unresolvable clip into a hard error. The lenient
	// default matches the historical behavior of proceeding with
	// whatever exists, yielding a shorter-than-expected output.
	strict bool
	logger *slog.Logger
}

// NewStitcher creates a Stitcher. When strict is true, a clip
// reference that does not resolve to an existing file fails the whole
// stitch instead of being skipped.
func NewStitcher(exec *Executor, prober *probe.Prober, store storage.Store, strict bool, logger *slog.Logger) *Stitcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stitcher{
		exec:   exec,
		prober: prober,
		store:  store,
		strict: strict,
		logger: logger,
	}
}

// Concatenate joins the given clips in order and returns the path of
// the combined output.
func (s *Stitcher) Concatenate(ctx context.Context, clips []ClipRef) (string, error) {
	paths, err := s.resolveClips(clips)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNoClips
	}

	manifestPath, err := s.writeManifest(paths)
	if err != nil {
		return "", err
	}
	// The manifest is removed on success and failure alike.
	defer func() {
		if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("manifest cleanup failed",
				slog.String("path", manifestPath),
				slog.String("error", err.Error()),
			)
		}
	}()

	outputPath := s.store.NewFilePath("rendered", ".mp4")

	if s.copyCompatible(ctx, paths) {
		if err := s.concatCopy(ctx, manifestPath, outputPath); err == nil {
			return outputPath, nil
		}
		s.logger.Warn("stream-copy concat failed, re-encoding",
			slog.Int("clips", len(paths)),
		)
	}

	if err := s.concatReencode(ctx, manifestPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// resolveClips maps clip references to existing local paths. Missing
// clips are skipped with a log entry, or fail the stitch in strict
// mode.
func (s *Stitcher) resolveClips(clips []ClipRef) ([]string, error) {
	paths := make([]string, 0, len(clips))
	for _, clip := range clips {
		path := s.store.Resolve(clip.Ref)
		if _, err := os.Stat(path); err != nil {
			if s.strict {
				return nil, fmt.Errorf("%w: %s", ErrClipNotFound, clip.Ref)
			}
			s.logger.Warn("skipping unresolvable clip",
				slog.String("ref", clip.Ref),
				slog.String("path", path),
			)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeManifest writes the concat demuxer file list in clip order.
func (s *Stitcher) writeManifest(paths []string) (string, error) {
	manifestPath := s.store.NewFilePath("concat", ".txt")

	var b strings.Builder
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", path, err)
		}
		// Escape single quotes in path
		escaped := strings.ReplaceAll(absPath, "'", "'\\''")
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}

	if err := os.WriteFile(manifestPath, []byte(b.String()), 0600); err != nil {
		return "", fmt.Errorf("write concat manifest: %w", err)
	}
	return manifestPath, nil
}

// copyCompatible probes every clip and reports whether they all share
// codec parameters suitable for stream copy. A failed probe counts as
// incompatible, forcing the re-encode path.
func (s *Stitcher) copyCompatible(ctx context.Context, paths []string) bool {
	if len(paths) == 1 {
		return true
	}

	first, err := s.prober.Inspect(ctx, paths[0])
	if err != nil {
		return false
	}
	for _, path := range paths[1:] {
		res, err := s.prober.Inspect(ctx, path)
		if err != nil || !probe.CopyCompatible(first, res) {
			return false
		}
	}
	return true
}

// concatCopy joins clips without re-encoding.
func (s *Stitcher) concatCopy(ctx context.Context, manifestPath, outputPath string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		outputPath,
	}
	return s.exec.run(ctx, KindStitch, args, outputPath)
}

// concatReencode joins clips with a full re-encode, tolerating
// mismatched codec parameters.
func (s *Stitcher) concatReencode(ctx context.Context, manifestPath, outputPath string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		outputPath,
	}
	return s.exec.run(ctx, KindStitch, args, outputPath)
}
