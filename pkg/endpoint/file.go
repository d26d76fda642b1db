package endpoint

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// FileInput reads from a filesystem path. The file is opened on the first
// Reader call and wrapped in a buffered reader.
type FileInput struct {
	path   string
	file   *os.File
	reader *bufio.Reader
}

// NewFileInput creates an input for the given path without touching the
// filesystem.
func NewFileInput(path string) *FileInput {
	return &FileInput{path: path}
}

// Path returns the path this input reads from.
func (f *FileInput) Path() string {
	return f.path
}

func (f *FileInput) Reader() (io.Reader, error) {
	if f.reader == nil {
		file, err := os.Open(f.path)
		if err != nil {
			return nil, errors.Errorf("opening source %q: %w", f.path, err)
		}
		f.file = file
		f.reader = bufio.NewReader(file)
	}
	return f.reader, nil
}

func (f *FileInput) Close() error {
	if f.file == nil {
		return nil
	}
	file := f.file
	f.file = nil
	f.reader = nil
	if err := file.Close(); err != nil {
		return errors.Errorf("closing source %q: %w", f.path, err)
	}
	return nil
}

// FileOutput writes to a filesystem path. The file is created (or truncated)
// on the first Writer call and wrapped in a buffered writer.
type FileOutput struct {
	path   string
	file   *os.File
	writer *bufio.Writer
}

// NewFileOutput creates an output for the given path without touching the
// filesystem.
func NewFileOutput(path string) *FileOutput {
	return &FileOutput{path: path}
}

// Path returns the path this output writes to.
func (f *FileOutput) Path() string {
	return f.path
}

func (f *FileOutput) Writer() (io.Writer, error) {
	if f.writer == nil {
		file, err := os.Create(f.path)
		if err != nil {
			return nil, errors.Errorf("creating destination %q: %w", f.path, err)
		}
		f.file = file
		f.writer = bufio.NewWriter(file)
	}
	return f.writer, nil
}

func (f *FileOutput) Extension() (string, bool) {
	return strings.TrimPrefix(filepath.Ext(f.path), "."), true
}

// SetFileName replaces the final path component, keeping the directory.
func (f *FileOutput) SetFileName(name string) error {
	f.path = filepath.Join(filepath.Dir(f.path), name)
	return nil
}

func (f *FileOutput) RemoveIfEmpty() (bool, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return false, errors.Errorf("inspecting destination %q: %w", f.path, err)
	}
	if info.Size() != 0 {
		return false, nil
	}
	if err := f.Remove(); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops the cached writer first: the OS handle must be released
// before unlinking on platforms that lock open files.
func (f *FileOutput) Remove() error {
	if f.file != nil {
		file := f.file
		f.file = nil
		f.writer = nil
		file.Close()
	}
	if err := os.Remove(f.path); err != nil {
		return errors.Errorf("removing destination %q: %w", f.path, err)
	}
	return nil
}

// Close flushes buffered output and releases the file handle. It is a no-op
// when the writer was never obtained.
func (f *FileOutput) Close() error {
	if f.file == nil {
		return nil
	}
	file, writer := f.file, f.writer
	f.file = nil
	f.writer = nil
	if err := writer.Flush(); err != nil {
		file.Close()
		return errors.Errorf("flushing destination %q: %w", f.path, err)
	}
	if err := file.Close(); err != nil {
		return errors.Errorf("closing destination %q: %w", f.path, err)
	}
	return nil
}
