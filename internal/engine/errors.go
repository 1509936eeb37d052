package engine

import (
	"errors"
	"fmt"
)

// Static errors for engine operations.
var (
	// ErrInputNotFound is returned when the render input does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrNoClips is returned when concatenation has no resolvable clips.
	ErrNoClips = errors.New("no clips to concatenate")
	// ErrClipNotFound is returned in strict stitch mode when a clip
	// reference does not resolve to an existing file.
	ErrClipNotFound = errors.New("clip does not resolve to an existing file")
)

// Kind classifies a failed external invocation.
type Kind string

const (
	// KindEncode is a failed render invocation, including timeouts and
	// empty output files.
	KindEncode Kind = "encode"
	// KindStitch is a failed concatenation invocation.
	KindStitch Kind = "stitch"
	// KindFetch is a failed stream download.
	KindFetch Kind = "fetch"
	// KindMerge is a failed audio/video mux.
	KindMerge Kind = "merge"
)

// stderrExcerptLimit bounds the diagnostic payload attached to a
// CommandError. The full engine log is never propagated.
const stderrExcerptLimit = 500

// CommandError represents a failed external engine invocation. Stderr
// is truncated to a short excerpt.
type CommandError struct {
	Kind   Kind
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Kind, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// newCommandError builds a CommandError with a bounded stderr excerpt.
func newCommandError(kind Kind, args []string, stderr string, err error) *CommandError {
	return &CommandError{
		Kind:   kind,
		Args:   args,
		Stderr: excerpt(stderr),
		Err:    err,
	}
}

func excerpt(s string) string {
	if len(s) > stderrExcerptLimit {
		return s[:stderrExcerptLimit]
	}
	return s
}
