package endpoint

import (
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// StdinInput reads from the process's standard input.
type StdinInput struct {
	r io.Reader
}

// NewStdinInput wraps os.Stdin.
func NewStdinInput() *StdinInput {
	return &StdinInput{r: os.Stdin}
}

func (s *StdinInput) Reader() (io.Reader, error) {
	return s.r, nil
}

// Close is a no-op; the process owns its standard input.
func (s *StdinInput) Close() error {
	return nil
}

// StdoutOutput writes to the process's standard output. It has no
// filesystem identity, so every path-shaped capability reports
// ErrUnsupported.
type StdoutOutput struct {
	w io.Writer
}

// NewStdoutOutput wraps os.Stdout.
func NewStdoutOutput() *StdoutOutput {
	return &StdoutOutput{w: os.Stdout}
}

func (s *StdoutOutput) Writer() (io.Writer, error) {
	return s.w, nil
}

func (s *StdoutOutput) Extension() (string, bool) {
	return "", false
}

func (s *StdoutOutput) SetFileName(name string) error {
	return errors.Errorf("renaming stdout: %w", ErrUnsupported)
}

func (s *StdoutOutput) RemoveIfEmpty() (bool, error) {
	return false, errors.Errorf("removing stdout: %w", ErrUnsupported)
}

func (s *StdoutOutput) Remove() error {
	return errors.Errorf("removing stdout: %w", ErrUnsupported)
}

// Close is a no-op; the process owns its standard output.
func (s *StdoutOutput) Close() error {
	return nil
}
