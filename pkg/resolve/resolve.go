// Package resolve turns a raw source path, an optional raw destination path,
// and a policy into a stream of concrete (source, destination) pairs for a
// command-line transformation tool to process.
//
// The sentinel path "-" on either side means "use the standard stream" and
// is recognized before any filesystem access. All other paths are
// canonicalized (symlinks resolved, made absolute) before they are compared,
// so that a destination directory aliasing the source is detected even
// through links.
package resolve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/pairio/pkg/policy"
	"github.com/walteh/pairio/pkg/stamp"
	"gitlab.com/tozd/go/errors"
)

// StdioPath is the sentinel path value meaning "use the standard stream".
const StdioPath = "-"

// Resolver applies a policy to raw paths. The zero Stamper falls back to the
// system clock; tests inject a deterministic one.
type Resolver struct {
	Policy  policy.Policy
	Stamper stamp.Stamper
}

// Resolve is a convenience wrapper using the system clock stamper.
func Resolve(ctx context.Context, pol policy.Policy, src, dst string) (*Pairs, error) {
	r := &Resolver{Policy: pol}
	return r.Resolve(ctx, src, dst)
}

// Resolve classifies the raw source and destination, applies the policy rule
// table, and produces a not-yet-materialized pair stream. An empty dst means
// "destination not provided".
//
// Errors come from two disjoint channels: environment faults (a path that
// cannot be inspected or canonicalized) are wrapped I/O errors carrying the
// OS-reported cause, while policy rejections are always a *PolicyError
// recoverable with errors.As. The two never mix.
func (r *Resolver) Resolve(ctx context.Context, srcPath, dstPath string) (*Pairs, error) {
	logger := zerolog.Ctx(ctx)

	src, err := classifySource(srcPath)
	if err != nil {
		return nil, err
	}
	dst, err := classifyDestination(dstPath)
	if err != nil {
		return nil, err
	}

	if src.kind == srcStdin && !r.Policy.AllowFromStdin {
		return nil, &PolicyError{Violation: DisallowFromStdin}
	}
	if dst.kind == dstStdout && !r.Policy.AllowToStdout {
		return nil, &PolicyError{Violation: DisallowToStdout}
	}
	if dst.kind == dstNotProvided {
		if src.kind == srcDir && !r.Policy.AutoNameDir {
			return nil, &PolicyError{Violation: ForbidAutoNamedDirectory}
		}
		if src.kind != srcDir && !r.Policy.AutoNameFile {
			return nil, &PolicyError{Violation: ForbidAutoNamedFile}
		}
	}

	// Aliasing guards. Both sides are canonical at this point, so a plain
	// comparison detects a destination that would clobber its own source.
	if dst.kind == dstDir {
		if src.kind == srcFile && dst.path == filepath.Dir(src.path) {
			logger.Debug().
				Str("destination", dst.path).
				Str("source", src.path).
				Msg("destination directory holds the source, switching to auto-naming")
			dst = rawDest{kind: dstNotProvided}
		} else if src.kind == srcDir && dst.path == src.path && !r.Policy.AllowInplace {
			return nil, &PolicyError{Violation: Inplace}
		}
	}

	if src.kind == srcDir {
		return r.resolveDir(ctx, src, dst)
	}
	return r.resolveSingle(ctx, src, dst)
}

// resolveSingle handles stdin and single-file sources: exactly one pair.
func (r *Resolver) resolveSingle(ctx context.Context, src rawSource, dst rawDest) (*Pairs, error) {
	s := source{stdin: src.kind == srcStdin, file: src.path}

	var d drain
	switch dst.kind {
	case dstStdout:
		d = drain{stdout: true}
	case dstFile, dstNotExist:
		d = drain{path: dst.path}
	case dstDir:
		d = drain{path: filepath.Join(dst.path, sourceName(src))}
	case dstNotProvided:
		parent, err := workingDir()
		if err != nil {
			return nil, err
		}
		name := autoName(sourceName(src), r.Policy.DefaultExtension, r.stamper().Stamp())
		d = drain{path: filepath.Join(parent, name)}
		zerolog.Ctx(ctx).Debug().Str("destination", d.path).Msg("auto-named destination file")
	}

	return &Pairs{src: s, dst: d}, nil
}

// resolveDir handles directory sources: one pair per regular file found by a
// shallow scan of the directory.
func (r *Resolver) resolveDir(ctx context.Context, src rawSource, dst rawDest) (*Pairs, error) {
	switch dst.kind {
	case dstStdout, dstFile:
		return nil, &PolicyError{Violation: ManyToOne}
	case dstNotExist:
		// Directories are never created at arbitrary user-specified paths;
		// only the auto-naming path below may introduce a new one.
		return nil, &PolicyError{Violation: DestinationDirectoryMissing}
	case dstDir:
		files, err := shallowScan(src.path)
		if err != nil {
			return nil, err
		}
		return &Pairs{src: source{files: files, batch: true}, dst: drain{path: dst.path}}, nil
	default: // dstNotProvided
		parent := filepath.Dir(src.path)
		if parent == src.path {
			return nil, errors.Errorf("parent directory of %q is unavailable", src.path)
		}
		files, err := shallowScan(src.path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(src.path) + "-" + r.stamper().Stamp()
		d := drain{path: filepath.Join(parent, name)}
		zerolog.Ctx(ctx).Debug().Str("destination", d.path).Msg("auto-named destination directory")
		return &Pairs{src: source{files: files, batch: true}, dst: d, needsDir: true}, nil
	}
}

func (r *Resolver) stamper() stamp.Stamper {
	if r.Stamper == nil {
		return stamp.System()
	}
	return r.Stamper
}

type srcKind int

const (
	srcStdin srcKind = iota
	srcFile
	srcDir
)

type rawSource struct {
	kind srcKind
	path string // canonical; empty for stdin
}

type dstKind int

const (
	dstStdout dstKind = iota
	dstFile
	dstDir
	dstNotExist
	dstNotProvided
)

type rawDest struct {
	kind dstKind
	path string // canonical when the path exists, as given for dstNotExist
}

func classifySource(path string) (rawSource, error) {
	if path == StdioPath {
		return rawSource{kind: srcStdin}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return rawSource{}, errors.Errorf("inspecting source %q: %w", path, err)
	}
	canon, err := canonicalize(path)
	if err != nil {
		return rawSource{}, errors.Errorf("canonicalizing source %q: %w", path, err)
	}
	if info.IsDir() {
		return rawSource{kind: srcDir, path: canon}, nil
	}
	return rawSource{kind: srcFile, path: canon}, nil
}

func classifyDestination(path string) (rawDest, error) {
	if path == "" {
		return rawDest{kind: dstNotProvided}, nil
	}
	if path == StdioPath {
		return rawDest{kind: dstStdout}, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rawDest{kind: dstNotExist, path: path}, nil
	}
	if err != nil {
		return rawDest{}, errors.Errorf("inspecting destination %q: %w", path, err)
	}
	canon, err := canonicalize(path)
	if err != nil {
		return rawDest{}, errors.Errorf("canonicalizing destination %q: %w", path, err)
	}
	if info.IsDir() {
		return rawDest{kind: dstDir, path: canon}, nil
	}
	return rawDest{kind: dstFile, path: canon}, nil
}

// canonicalize resolves symlinks and makes the path absolute.
func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf("determining working directory: %w", err)
	}
	canon, err := canonicalize(wd)
	if err != nil {
		return "", errors.Errorf("canonicalizing working directory: %w", err)
	}
	return canon, nil
}

// shallowScan lists the directory's immediate children, keeping only regular
// files (subdirectories, symlinks and special files are skipped), in
// ascending lexical order.
func shallowScan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("listing source directory %q: %w", dir, err)
	}
	files := []string{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// sourceName is the base name used for a destination derived from the
// source: the file's own name, or the literal "stdin".
func sourceName(src rawSource) string {
	if src.kind == srcStdin {
		return "stdin"
	}
	return filepath.Base(src.path)
}

// autoName builds "<base>-<ts>.<ext>". When base already ends with the
// default extension it is stripped first so the result is not doubled:
// photo.png -> photo-<ts>.png, but photo.jpg -> photo.jpg-<ts>.png.
func autoName(base, ext, ts string) string {
	if ext != "" && extensionOf(base) == ext {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name := base + "-" + ts
	if ext != "" {
		name += "." + ext
	}
	return name
}

// extensionOf is filepath.Ext without the leading dot, treating dotfiles
// like ".bashrc" as having no extension.
func extensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
