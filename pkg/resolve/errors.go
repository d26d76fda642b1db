package resolve

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Violation identifies which policy rule rejected a source/destination
// combination. The set is closed and stable so callers can branch on the
// exact cause.
type Violation int

const (
	// DisallowFromStdin rejects a stdin source when the policy forbids it
	DisallowFromStdin Violation = iota + 1
	// DisallowToStdout rejects a stdout destination when the policy forbids it
	DisallowToStdout
	// ForbidAutoNamedFile rejects a missing destination for a stdin or
	// single-file source when the policy forbids auto-naming files
	ForbidAutoNamedFile
	// ForbidAutoNamedDirectory rejects a missing destination for a directory
	// source when the policy forbids auto-naming directories
	ForbidAutoNamedDirectory
	// Inplace rejects a directory source whose destination is the same
	// directory, unless the policy explicitly permits it
	Inplace
	// ManyToOne rejects a directory source paired with stdout or a
	// single-file destination
	ManyToOne
	// DestinationDirectoryMissing rejects a directory source whose given
	// destination does not exist on disk
	DestinationDirectoryMissing
)

func (v Violation) String() string {
	switch v {
	case DisallowFromStdin:
		return "reading from stdin is not allowed"
	case DisallowToStdout:
		return "writing to stdout is not allowed"
	case ForbidAutoNamedFile:
		return "automatic time-based naming of the destination file is not allowed"
	case ForbidAutoNamedDirectory:
		return "automatic time-based naming of the destination directory is not allowed"
	case Inplace:
		return "source and destination are the same directory"
	case ManyToOne:
		return "unable to write multiple files to one destination"
	case DestinationDirectoryMissing:
		return "specified destination directory does not exist"
	default:
		return fmt.Sprintf("unknown violation (%d)", int(v))
	}
}

// PolicyError reports a semantic rejection of the caller-supplied argument
// combination. It is disjoint from environment faults: filesystem errors are
// never a *PolicyError, and a *PolicyError never wraps one. Recover it with
// errors.As.
type PolicyError struct {
	Violation Violation
}

func (e *PolicyError) Error() string {
	return e.Violation.String()
}

// AsPolicy unwraps err into a policy violation, reporting whether err is
// one.
func AsPolicy(err error) (*PolicyError, bool) {
	var pe *PolicyError
	if err == nil {
		return nil, false
	}
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
