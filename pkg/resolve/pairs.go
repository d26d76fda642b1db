package resolve

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// Src is the input half of a concrete pair: stdin or a file path.
type Src struct {
	Stdin bool
	Path  string
}

func (s Src) String() string {
	if s.Stdin {
		return StdioPath
	}
	return s.Path
}

// Dst is the output half of a concrete pair: stdout or a file path.
type Dst struct {
	Stdout bool
	Path   string
}

func (d Dst) String() string {
	if d.Stdout {
		return StdioPath
	}
	return d.Path
}

// Pair is one concrete (input endpoint, output endpoint) assignment.
type Pair struct {
	Src Src
	Dst Dst
}

// Pairs is a single-pass, forward-only stream of concrete pairs. It is owned
// by the caller that received it from Resolve, is not safe for concurrent
// iteration, and once exhausted never restarts; re-resolution requires
// calling Resolve again.
type Pairs struct {
	src source
	dst drain

	needsDir  bool
	exhausted bool
}

type source struct {
	stdin bool
	file  string
	files []string // remaining batch entries, ascending order
	batch bool
}

type drain struct {
	stdout bool
	path   string // a directory when the source is a batch
}

// CreateDestinationDir creates the auto-named destination directory. It must
// be called before the first pair is consumed. It is a no-op unless the
// destination directory was synthesized by auto-naming; when it was, exactly
// that one directory is created, failing if it already exists or its parent
// is missing.
func (p *Pairs) CreateDestinationDir() error {
	if !p.needsDir {
		return nil
	}
	if err := os.Mkdir(p.dst.path, 0755); err != nil {
		return errors.Errorf("creating destination directory: %w", err)
	}
	return nil
}

// NeedsDestinationDir reports whether the destination directory was
// synthesized by auto-naming and does not exist yet on disk.
func (p *Pairs) NeedsDestinationDir() bool {
	return p.needsDir
}

// DestinationDir returns the destination directory for a batch stream, or
// the single destination path otherwise. Empty when the destination is
// stdout.
func (p *Pairs) DestinationDir() string {
	return p.dst.path
}

// IsBatch reports whether the stream yields one pair per source-directory
// file, so the caller knows whether per-pair progress reporting is
// warranted.
func (p *Pairs) IsBatch() bool {
	return p.src.batch
}

// Len reports how many pairs remain to be produced.
func (p *Pairs) Len() int {
	if p.exhausted {
		return 0
	}
	if p.src.batch {
		return len(p.src.files)
	}
	return 1
}

// Next produces the next concrete pair. A stdin or single-file source yields
// exactly one pair; a batch source yields one pair per remaining file,
// joining each base name with the destination directory on demand.
func (p *Pairs) Next() (Pair, bool) {
	if p.exhausted {
		return Pair{}, false
	}

	if p.src.batch {
		if len(p.src.files) == 0 {
			p.exhausted = true
			return Pair{}, false
		}
		file := p.src.files[0]
		p.src.files = p.src.files[1:]
		return Pair{
			Src: Src{Path: file},
			Dst: Dst{Path: filepath.Join(p.dst.path, filepath.Base(file))},
		}, true
	}

	p.exhausted = true
	return Pair{
		Src: Src{Stdin: p.src.stdin, Path: p.src.file},
		Dst: Dst{Stdout: p.dst.stdout, Path: p.dst.path},
	}, true
}
