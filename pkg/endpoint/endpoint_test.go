package endpoint

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestFileInputLazyOpen(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	in := NewFileInput(path)
	assert.Equal(t, path, in.Path())

	r, err := in.Reader()
	require.NoError(t, err, "first Reader call should open the file")
	r2, err := in.Reader()
	require.NoError(t, err)
	assert.Same(t, r, r2, "reader should be cached")

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, in.Close())
	require.NoError(t, in.Close(), "closing twice should be a no-op")
}

func TestFileInputMissingFile(t *testing.T) {
	in := NewFileInput(filepath.Join(t.TempDir(), "ghost.txt"))

	_, err := in.Reader()
	require.Error(t, err, "opening a missing source should fail at Reader time")
	assert.NoError(t, in.Close(), "close should be a no-op when nothing was opened")
}

func TestFileOutputLazyCreate(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out.txt")

	out := NewFileOutput(path)
	assert.NoFileExists(t, path, "construction must not create the file")

	w, err := out.Writer()
	require.NoError(t, err, "first Writer call should create the file")
	assert.FileExists(t, path)

	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, out.Close(), "close should flush the buffered writer")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestFileOutputTruncatesExisting(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous contents"), 0644))

	out := NewFileOutput(path)
	w, err := out.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileOutputExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "png", path: "photo.png", want: "png"},
		{name: "none", path: "notes", want: ""},
		{name: "double", path: "archive.tar.gz", want: "gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := NewFileOutput(tt.path).Extension()
			assert.True(t, ok, "file outputs always have a filesystem identity")
			assert.Equal(t, tt.want, ext)
		})
	}
}

func TestFileOutputSetFileName(t *testing.T) {
	tmp := t.TempDir()
	out := NewFileOutput(filepath.Join(tmp, "before.txt"))

	require.NoError(t, out.SetFileName("after.txt"))
	assert.Equal(t, filepath.Join(tmp, "after.txt"), out.Path(), "rename keeps the directory")

	_, err := out.Writer()
	require.NoError(t, err)
	require.NoError(t, out.Close())

	assert.FileExists(t, filepath.Join(tmp, "after.txt"))
	assert.NoFileExists(t, filepath.Join(tmp, "before.txt"))
}

func TestFileOutputRemoveIfEmpty(t *testing.T) {
	t.Run("empty_file_removed", func(t *testing.T) {
		tmp := t.TempDir()
		path := filepath.Join(tmp, "out.txt")
		out := NewFileOutput(path)

		_, err := out.Writer()
		require.NoError(t, err)

		removed, err := out.RemoveIfEmpty()
		require.NoError(t, err)
		assert.True(t, removed, "zero-byte destination should be removed")
		assert.NoFileExists(t, path)
	})

	t.Run("non_empty_file_untouched", func(t *testing.T) {
		tmp := t.TempDir()
		path := filepath.Join(tmp, "out.txt")
		out := NewFileOutput(path)

		w, err := out.Writer()
		require.NoError(t, err)
		_, err = w.Write([]byte("partial but useful"))
		require.NoError(t, err)
		require.NoError(t, out.Close())

		removed, err := out.RemoveIfEmpty()
		require.NoError(t, err)
		assert.False(t, removed, "non-empty destination must be protected")
		assert.FileExists(t, path)
	})

	t.Run("missing_file_is_an_error", func(t *testing.T) {
		out := NewFileOutput(filepath.Join(t.TempDir(), "ghost.txt"))
		_, err := out.RemoveIfEmpty()
		require.Error(t, err, "stat on a never-created destination should fail")
	})
}

func TestFileOutputRemove(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "out.txt")
	out := NewFileOutput(path)

	w, err := out.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte("doomed contents"))
	require.NoError(t, err)

	// The writer is still open; Remove must release it before unlinking.
	require.NoError(t, out.Remove())
	assert.NoFileExists(t, path)
	assert.NoError(t, out.Close(), "close after remove should be a no-op")
}

func TestStdioEndpoints(t *testing.T) {
	in := NewStdinInput()
	r, err := in.Reader()
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.NoError(t, in.Close())

	out := NewStdoutOutput()
	w, err := out.Writer()
	require.NoError(t, err)
	assert.NotNil(t, w)

	ext, ok := out.Extension()
	assert.False(t, ok, "streams have no filesystem identity")
	assert.Empty(t, ext)

	err = out.SetFileName("anything")
	assert.True(t, errors.Is(err, ErrUnsupported), "rename on a stream should signal unsupported")

	_, err = out.RemoveIfEmpty()
	assert.True(t, errors.Is(err, ErrUnsupported))

	err = out.Remove()
	assert.True(t, errors.Is(err, ErrUnsupported))

	assert.NoError(t, out.Close())
}

func TestIOComposite(t *testing.T) {
	tmp := t.TempDir()
	srcPath := filepath.Join(tmp, "src.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("through the composite"), 0644))

	handles := NewIO(NewFileInput(srcPath), NewFileOutput(filepath.Join(tmp, "dst.txt")))

	r, err := handles.Reader()
	require.NoError(t, err)
	w, err := handles.Writer()
	require.NoError(t, err)

	_, err = io.Copy(w, r)
	require.NoError(t, err)
	require.NoError(t, handles.Close())

	data, err := os.ReadFile(filepath.Join(tmp, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "through the composite", string(data))
}

func TestIOSlotSwapping(t *testing.T) {
	tmp := t.TempDir()
	srcPath := filepath.Join(tmp, "src.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("data"), 0644))

	handles := NewIO(NewFileInput(srcPath), NewFileOutput(filepath.Join(tmp, "wrong.bin")))

	// Sniffing decided the real format; swap the output before any writer
	// was created.
	handles.WithOutput(NewFileOutput(filepath.Join(tmp, "right.txt")))

	ext, ok := handles.Extension()
	require.True(t, ok)
	assert.Equal(t, "txt", ext, "extension should reflect the swapped slot")

	r, err := handles.Reader()
	require.NoError(t, err)
	w, err := handles.Writer()
	require.NoError(t, err)
	_, err = io.Copy(w, r)
	require.NoError(t, err)
	require.NoError(t, handles.Close())

	assert.FileExists(t, filepath.Join(tmp, "right.txt"))
	assert.NoFileExists(t, filepath.Join(tmp, "wrong.bin"))

	// Swap the input too: the composite should read from the new slot.
	otherPath := filepath.Join(tmp, "other.txt")
	require.NoError(t, os.WriteFile(otherPath, []byte("other data"), 0644))
	handles.WithInput(NewFileInput(otherPath))

	r, err = handles.Reader()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "other data", string(data))
}

func TestIOCompositeWithStreams(t *testing.T) {
	var sink bytes.Buffer
	handles := NewIO(
		&StdinInput{r: strings.NewReader("from stdin")},
		&StdoutOutput{w: &sink},
	)

	r, err := handles.Reader()
	require.NoError(t, err)
	w, err := handles.Writer()
	require.NoError(t, err)

	_, err = io.Copy(w, r)
	require.NoError(t, err)
	require.NoError(t, handles.Close())

	assert.Equal(t, "from stdin", sink.String())

	err = handles.Remove()
	assert.True(t, errors.Is(err, ErrUnsupported), "composite should delegate the unsupported signal")
}
