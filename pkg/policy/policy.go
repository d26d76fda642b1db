// Package policy defines which source and destination shapes a tool accepts.
package policy

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Policy describes the permitted endpoint shapes for one tool invocation.
// It is constructed once and read-only thereafter.
type Policy struct {
	// AllowFromStdin permits "-" as the source path
	AllowFromStdin bool `json:"allow_from_stdin" yaml:"allow_from_stdin" hcl:"allow_from_stdin,optional"`
	// AllowToStdout permits "-" as the destination path
	AllowToStdout bool `json:"allow_to_stdout" yaml:"allow_to_stdout" hcl:"allow_to_stdout,optional"`

	// AutoNameFile permits synthesizing a time-based output file name when no
	// destination is given for a stdin or single-file source
	AutoNameFile bool `json:"auto_name_file" yaml:"auto_name_file" hcl:"auto_name_file,optional"`
	// AutoNameDir permits synthesizing a time-based sibling directory when no
	// destination is given for a directory source
	AutoNameDir bool `json:"auto_name_dir" yaml:"auto_name_dir" hcl:"auto_name_dir,optional"`

	// DefaultExtension is appended (without the leading dot) to auto-named
	// output files. Empty means no extension is appended.
	DefaultExtension string `json:"default_extension" yaml:"default_extension" hcl:"default_extension,optional"`

	// AllowInplace permits a directory source whose destination is the same
	// directory. Off by default: the same file would be opened for reading
	// and truncated for writing at the same time.
	AllowInplace bool `json:"allow_inplace" yaml:"allow_inplace" hcl:"allow_inplace,optional"`
}

// Default returns a policy that permits every shape except in-place
// operation, with the given default extension for auto-named outputs.
func Default(extension string) Policy {
	return Policy{
		AllowFromStdin:   true,
		AllowToStdout:    true,
		AutoNameFile:     true,
		AutoNameDir:      true,
		DefaultExtension: extension,
		AllowInplace:     false,
	}
}

// DefaultInplace is Default with in-place operation permitted.
func DefaultInplace(extension string) Policy {
	p := Default(extension)
	p.AllowInplace = true
	return p
}

// Validate checks that the policy's fields are usable. The extension is
// joined into file names verbatim, so it must not smuggle in path structure.
func Validate(p Policy) error {
	if strings.ContainsAny(p.DefaultExtension, `/\`) {
		return errors.Errorf("default_extension %q must not contain path separators", p.DefaultExtension)
	}
	if strings.HasPrefix(p.DefaultExtension, ".") {
		return errors.Errorf("default_extension %q must not start with a dot", p.DefaultExtension)
	}
	return nil
}
