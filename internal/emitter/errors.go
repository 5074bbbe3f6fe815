package emitter

import (
	"github.com/cockroachdb/errors"
)

// Failure classes of a generation run. Every error returned by this package
// matches one of them with errors.Is.
var (
	// ErrTypeResolution marks a field shape that is neither Simple, Array nor
	// Parameterized. It aborts the owning type only.
	ErrTypeResolution = errors.New("type resolution")

	// ErrDirectoryCreation marks a mirror namespace directory that could not be created.
	ErrDirectoryCreation = errors.New("directory creation")

	// ErrStreamWrite marks a sink that refused to open, write or flush.
	ErrStreamWrite = errors.New("stream write")

	// ErrStreamClosed marks a write or close on a stream that is already closed.
	ErrStreamClosed = errors.New("stream closed")

	// ErrStreamState marks an out-of-order emission step.
	ErrStreamState = errors.New("stream state")
)
