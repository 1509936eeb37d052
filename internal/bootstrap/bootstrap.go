// Package bootstrap provides dependency initialization for clipforge.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/engine"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/storage"
)

// ErrEngineNotFound is returned at startup when the external media
// engine cannot be resolved. It is never raised per call.
var ErrEngineNotFound = errors.New("external media engine not found")

// Dependencies holds all initialized collaborators.
type Dependencies struct {
	Engine   *engine.Engine
	Stitcher *engine.Stitcher
	Prober   *probe.Prober
	Store    storage.Store
}

// NewDependencies creates and initializes all dependencies for the
// application. The ffmpeg and ffprobe binaries are resolved exactly
// once here; their absence is fatal at startup.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if err := checkEngine(cfg.FFmpegPath); err != nil {
		return nil, err
	}
	if err := checkEngine(cfg.FFprobePath); err != nil {
		return nil, err
	}

	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	prober := probe.New(cfg.FFprobePath, cfg.ProbeTimeout(), logger)
	executor := engine.NewExecutor(cfg.FFmpegPath, cfg.RenderTimeout(), logger)

	return &Dependencies{
		Engine:   engine.New(executor, prober, store, logger),
		Stitcher: engine.NewStitcher(executor, prober, store, cfg.StitchStrict, logger),
		Prober:   prober,
		Store:    store,
	}, nil
}

// checkEngine verifies that the configured binary is resolvable,
// either as an explicit path or through PATH.
func checkEngine(path string) error {
	if strings.ContainsRune(path, os.PathSeparator) {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrEngineNotFound, path)
		}
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("%w: %s", ErrEngineNotFound, path)
	}
	return nil
}

// initStorage creates the appropriate storage backend based on
// configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3(cfg.TempDir, cfg.PublicBaseURL, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 publishing configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocal(cfg.TempDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil
}
