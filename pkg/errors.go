package dup

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure. Kinds are strings so they read well in logs and JSON.
type ErrorKind string

const (
	// KindScan indicates a directory or directory entry could not be read.
	KindScan ErrorKind = "SCAN"

	// KindCompare indicates a file could not be opened or read while comparing.
	KindCompare ErrorKind = "COMPARE"

	// KindRemove indicates a duplicate could not be removed.
	KindRemove ErrorKind = "REMOVE"

	// KindOverflow indicates the pair count does not fit in a uint64.
	KindOverflow ErrorKind = "OVERFLOW"

	// KindInvalidInput indicates a precondition on the options was violated.
	KindInvalidInput ErrorKind = "INVALID_INPUT"

	// KindInterrupted indicates the run was aborted by a shutdown signal.
	KindInterrupted ErrorKind = "INTERRUPTED"

	// KindConfig indicates the configuration file could not be loaded or is invalid.
	KindConfig ErrorKind = "CONFIG"

	// KindUnknown is returned by KindOf for errors that carry no kind.
	KindUnknown ErrorKind = "UNKNOWN"
)

// Precondition and abort errors
var (
	ErrNoDirectories        = errors.New("at least one directory is required")
	ErrCrossNeedsTwoDirs    = errors.New("at least two directories are required for cross comparison")
	ErrInvalidChunkSize     = errors.New("chunk size must not be negative")
	ErrPairCountOverflow    = errors.New("pair count exceeds the representable range")
	ErrInterrupted          = errors.New("interrupted by shutdown")
	ErrOriginalMissing      = errors.New("original no longer exists")
	ErrUnsupportedFormat    = errors.New("unsupported output format")
	ErrInvalidOverrideValue = errors.New("invalid override")
)

// OpError records the operation and path that failed
type OpError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func newOpError(kind ErrorKind, op, path string, err error) *OpError {
	return &OpError{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of the first OpError in err's chain
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}

// PathOf returns the path attached to the first OpError in err's chain
func PathOf(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Path
	}
	return ""
}
