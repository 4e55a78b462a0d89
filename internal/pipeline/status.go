package pipeline

import (
	"context"
	"errors"
	"fmt"

	"stubsplit/internal/extractor"
	"stubsplit/internal/fsutil"
	"stubsplit/internal/storage"
	"stubsplit/internal/stubdoc"
)

type State string

const (
	StateUntracked State = "untracked" // never split or combined
	StateSplit     State = "split"     // last op was split, stub unchanged since
	StateCombined  State = "combined"  // last op was combine, stub unchanged since
	StateModified  State = "modified"  // stub changed after the last op
	StateMissing   State = "missing"   // stub file no longer exists
)

// FileStatus describes one stub file against the journal.
type FileStatus struct {
	Path   string
	State  State
	HasDoc bool
	Last   *storage.Entry // nil when untracked
}

var ErrNoJournal = errors.New("journal is disabled")

// Status compares each stub file with its newest journal entry.
func (r *Runner) Status(ctx context.Context, rels []string) ([]FileStatus, error) {
	if r.Journal == nil {
		return nil, ErrNoJournal
	}

	var out []FileStatus
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := r.statusOf(ctx, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *Runner) statusOf(ctx context.Context, rel string) (FileStatus, error) {
	st := FileStatus{Path: rel}

	hasDoc, err := fsutil.Exists(stubdoc.DocPath(r.DocRoot, rel))
	if err != nil {
		return st, err
	}
	st.HasDoc = hasDoc

	stubHash, err := hashFile(stubdoc.StubPath(r.StubRoot, rel))
	if err != nil {
		return st, err
	}

	last, err := r.Journal.Latest(ctx, rel)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		st.State = StateUntracked
		if stubHash == "" {
			st.State = StateMissing
		}
		return st, nil
	case err != nil:
		return st, fmt.Errorf("journal lookup for %s: %w", rel, err)
	}
	st.Last = last

	switch {
	case stubHash == "":
		st.State = StateMissing
	case stubHash != last.StubHash:
		st.State = StateModified
	case last.Op == storage.OpSplit:
		st.State = StateSplit
	default:
		st.State = StateCombined
	}
	return st, nil
}

// CheckResult lists the unsupported constructs of one stub file.
type CheckResult struct {
	Path   string
	Issues []extractor.Issue
}

// Check runs the Checker over every file and returns the files with issues.
func (r *Runner) Check(ctx context.Context, rels []string) ([]CheckResult, error) {
	if r.Checker == nil {
		return nil, errors.New("no checker configured")
	}

	var out []CheckResult
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues, err := r.Checker.CheckFile(ctx, stubdoc.StubPath(r.StubRoot, rel))
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", rel, err)
		}
		if len(issues) > 0 {
			out = append(out, CheckResult{Path: rel, Issues: issues})
		}
	}
	return out, nil
}
