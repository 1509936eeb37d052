package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local implements Store on a local disk directory. All generated
// files live directly under the root with randomly generated names; no
// subdirectory structure is used.
type Local struct {
	root string
	// publicBaseURL is the prefix collaborators use when exposing
	// files under the root.
	publicBaseURL string
}

// NewLocal creates a Local store rooted at root, creating the
// directory if needed. If root is empty, a "clipforge" directory under
// the system temp dir is used.
func NewLocal(root, publicBaseURL string) (*Local, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "clipforge")
	}

	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Local{root: root, publicBaseURL: publicBaseURL}, nil
}

// Root returns the temporary-storage root directory.
func (s *Local) Root() string {
	return s.root
}

// NewFilePath returns a collision-free path under the root. The random
// identifier is what keeps concurrent renders from colliding on the
// shared root.
func (s *Local) NewFilePath(prefix, ext string) string {
	return filepath.Join(s.root, fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext))
}

// Resolve maps an exposed clip reference to a local path. References
// carrying the public base URL are mapped back into the root; anything
// else is treated as a filesystem path already.
func (s *Local) Resolve(ref string) string {
	if s.publicBaseURL != "" && strings.HasPrefix(ref, s.publicBaseURL) {
		name := strings.TrimPrefix(ref, s.publicBaseURL)
		return filepath.Join(s.root, filepath.Base(name))
	}
	return ref
}

// Cleanup removes the given files. It continues past individual
// failures and returns the first error encountered. Missing files are
// not an error.
func (s *Local) Cleanup(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove temp file %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// Publish is not supported by Local and returns ErrS3NotConfigured.
func (s *Local) Publish(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
