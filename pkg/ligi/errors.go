// Package ligi implements the tag indexing and query engine: the markdown
// tag scanner, the in-memory TagMap, the local and global renderers, the
// staleness oracle, the link filler, the prune/merge algorithms, and the
// AND/OR query evaluator.
package ligi

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers should use errors.Is(err, ErrX) to detect these
// conditions rather than matching error strings.
var (
	// ErrArtNotFound indicates no art/ directory could be located from the
	// starting directory within the ancestor search depth.
	ErrArtNotFound = errors.New("ligi: no art/ directory found")

	// ErrUsage indicates malformed arguments or a malformed query expression.
	ErrUsage = errors.New("ligi: usage error")

	// ErrTagNotFound indicates a per-tag index file does not exist. Per
	// spec §4.9 this is not itself fatal; query treats it as an empty set.
	ErrTagNotFound = errors.New("ligi: tag index not found")

	// ErrInvalidTag indicates a tag name failed validation (see ValidateTag).
	ErrInvalidTag = errors.New("ligi: invalid tag name")
)

// Kind classifies an error for the exit-code mapping described in spec §7.
type Kind int

const (
	// KindInternal covers assertion failures that should exit 127.
	KindInternal Kind = iota
	// KindUsage covers malformed arguments/expressions; exit 2.
	KindUsage
	// KindFilesystem covers read/write/path failures; exit 1 (or 3 for
	// ErrArtNotFound specifically, mapped by the cli layer).
	KindFilesystem
	// KindWarning covers non-fatal conditions that are logged and do not
	// change the exit code by themselves.
	KindWarning
)

// ClassifiedError pairs an error with the Kind used to pick an exit code and
// a human-facing prefix ("error:" / "warning:") per spec §7.
type ClassifiedError struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *ClassifiedError) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Cause)
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

// NewUsageError wraps cause as a KindUsage ClassifiedError.
func NewUsageError(op string, cause error) error {
	return &ClassifiedError{Kind: KindUsage, Op: op, Cause: cause}
}

// NewFilesystemError wraps cause as a KindFilesystem ClassifiedError.
func NewFilesystemError(op string, cause error) error {
	return &ClassifiedError{Kind: KindFilesystem, Op: op, Cause: cause}
}

// NewInternalError wraps cause as a KindInternal ClassifiedError.
func NewInternalError(op string, cause error) error {
	return &ClassifiedError{Kind: KindInternal, Op: op, Cause: cause}
}

// ClassifyKind inspects err's chain for a *ClassifiedError and returns its
// Kind, defaulting to KindFilesystem for unclassified errors (the safest
// default: an unclassified failure should not silently report success).
func ClassifyKind(err error) Kind {
	if err == nil {
		return KindFilesystem
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, ErrArtNotFound) {
		return KindFilesystem
	}
	if errors.Is(err, ErrUsage) {
		return KindUsage
	}
	return KindFilesystem
}
