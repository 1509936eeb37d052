// Package storage manages the shared temporary-storage root where all
// rendered outputs, stitched outputs, fetched inputs, and concat
// manifests live. Filenames carry a random identifier so concurrent
// renders never collide. Publishing a final output is optional and
// backed by S3.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrS3NotConfigured is returned when a publish is attempted without
// S3 configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// Store is the filesystem namespace shared by all renders plus an
// optional publish target for final outputs.
type Store interface {
	// Root returns the temporary-storage root directory.
	Root() string

	// NewFilePath returns a collision-free path under the root for a
	// new file. The prefix describes the file's role ("processed",
	// "rendered", "concat", ...) and ext includes the leading dot.
	NewFilePath(prefix, ext string) string

	// Resolve maps an exposed clip reference (public URL or plain
	// path) to a local path. It does not check existence.
	Resolve(ref string) string

	// Cleanup removes the given files, continuing past individual
	// failures and returning the first error encountered.
	Cleanup(ctx context.Context, paths []string) error

	// Publish uploads a final output and returns its public URL.
	// Returns ErrS3NotConfigured when no publish target exists.
	Publish(ctx context.Context, key string, data io.Reader) (url string, err error)
}
