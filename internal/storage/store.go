package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("no journal entry")

type Op string

const (
	OpSplit   Op = "split"
	OpCombine Op = "combine"
)

// Entry records one completed split or combine of a stub file.
type Entry struct {
	ID          int64
	Path        string // stub path relative to the stub root
	Op          Op
	StubHash    string // stub content after the operation
	DocHash     string // docstring file content after the operation
	Definitions int    // docstrings moved (split) or definitions indexed (combine)
	CreatedAt   time.Time
}

// Journal persists the history of operations per stub file.
type Journal interface {
	// Record appends an entry. CreatedAt defaults to now.
	Record(ctx context.Context, e Entry) error

	// Latest returns the newest entry for path, or ErrNotFound.
	Latest(ctx context.Context, path string) (*Entry, error)

	// History returns up to limit entries for path, newest first.
	History(ctx context.Context, path string, limit int) ([]Entry, error)

	Close() error
}
