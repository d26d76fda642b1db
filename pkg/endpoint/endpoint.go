// Package endpoint provides the resource handles opened for each resolved
// source/destination pair: lazily-opened file handles, standard-stream
// wrappers, and a composite that lets either side be swapped out.
package endpoint

import (
	"io"

	"gitlab.com/tozd/go/errors"
)

// ErrUnsupported is returned by capability methods that do not apply to an
// endpoint kind (renaming or removing a standard stream). Callers must treat
// it as a no-op branch, not a failure; check with errors.Is.
var ErrUnsupported = errors.New("operation not supported by this endpoint")

// Input is a readable source endpoint. The underlying OS resource is
// acquired on the first Reader call and cached.
type Input interface {
	// Reader returns the byte stream for this endpoint, opening it if needed
	Reader() (io.Reader, error)
	// Close releases the underlying resource, if any was acquired
	Close() error
}

// Output is a writable destination endpoint. The underlying OS resource is
// acquired on the first Writer call and cached; opening implies
// create-or-truncate semantics for file-backed endpoints.
type Output interface {
	// Writer returns the byte stream for this endpoint, opening it if needed
	Writer() (io.Writer, error)
	// Extension reports the destination's file name extension without the
	// leading dot. ok is false when the endpoint has no filesystem identity.
	Extension() (ext string, ok bool)
	// SetFileName renames the destination within its directory. Takes effect
	// before the first Writer call.
	SetFileName(name string) error
	// RemoveIfEmpty deletes the destination file only if its size is exactly
	// zero, reporting whether deletion occurred.
	RemoveIfEmpty() (bool, error)
	// Remove releases any open writer and deletes the destination file
	// regardless of its contents.
	Remove() error
	// Close flushes and releases the underlying resource, if any
	Close() error
}

// IO pairs one Input with one Output. Either slot can be replaced after
// construction, e.g. to correct the destination once the true input format
// has been sniffed from the stream.
type IO struct {
	in  Input
	out Output
}

// NewIO creates a composite handle from the given slots.
func NewIO(in Input, out Output) *IO {
	return &IO{in: in, out: out}
}

// WithInput replaces the input slot.
func (x *IO) WithInput(in Input) {
	x.in = in
}

// WithOutput replaces the output slot.
func (x *IO) WithOutput(out Output) {
	x.out = out
}

func (x *IO) Reader() (io.Reader, error) {
	return x.in.Reader()
}

func (x *IO) Writer() (io.Writer, error) {
	return x.out.Writer()
}

func (x *IO) Extension() (string, bool) {
	return x.out.Extension()
}

func (x *IO) SetFileName(name string) error {
	return x.out.SetFileName(name)
}

func (x *IO) RemoveIfEmpty() (bool, error) {
	return x.out.RemoveIfEmpty()
}

func (x *IO) Remove() error {
	return x.out.Remove()
}

// Close closes both slots, input first. The first error wins but both sides
// are always closed.
func (x *IO) Close() error {
	errIn := x.in.Close()
	errOut := x.out.Close()
	if errIn != nil {
		return errIn
	}
	return errOut
}
