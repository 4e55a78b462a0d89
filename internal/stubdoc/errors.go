package stubdoc

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile    = errors.New("missing file")
	ErrUnexpectedLine = errors.New("unexpected line")
)

// FileKind tells which half of a file pair an error refers to.
type FileKind string

const (
	StubFile FileKind = "stub"
	DocFile  FileKind = "doc"
)

// MissingFileError is returned before any mutation when the stub file or its
// docstring file does not exist.
type MissingFileError struct {
	Kind FileKind
	Rel  string // path relative to the root it was looked up under
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing %s file %s (%s)", e.Kind, e.Rel, e.Path)
}

func (e *MissingFileError) Is(target error) bool { return target == ErrMissingFile }

// UnexpectedLineError reports a docstring file line that is not a class
// header, a def header or blank at a position where one of those is required.
type UnexpectedLineError struct {
	Index   int // zero-based line index
	Content string
}

func (e *UnexpectedLineError) Error() string {
	return fmt.Sprintf("unhandled line %d: %q", e.Index, e.Content)
}

func (e *UnexpectedLineError) Is(target error) bool { return target == ErrUnexpectedLine }
