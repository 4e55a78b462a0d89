package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"stubsplit/internal/extractor"
	"stubsplit/internal/fsutil"
	"stubsplit/internal/storage"
	"stubsplit/internal/stubdoc"
)

// Checker reports constructs the splitter cannot handle.
type Checker interface {
	CheckFile(ctx context.Context, path string) ([]extractor.Issue, error)
}

// Runner applies split or combine to a batch of stub files, one file at a
// time. Callers must not run two Runners over the same file pair at once.
type Runner struct {
	StubRoot   string
	DocRoot    string
	CreateDirs bool // create missing doc directories before splitting
	Strict     bool // run Checker before splitting and refuse on issues
	KeepGoing  bool // continue after a failed file and report all errors

	Checker Checker         // nil skips the strict check
	Journal storage.Journal // nil disables journaling
	Logger  *slog.Logger
}

// Summary counts what a batch did.
type Summary struct {
	Processed  int
	Failed     int
	Docstrings int // split: docstring blocks moved out
	Matched    int // combine: definitions merged back
	Orphans    int // combine: docstring definitions with no stub counterpart
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Split runs stubdoc.Split on every relative path.
func (r *Runner) Split(ctx context.Context, rels []string) (*Summary, error) {
	sum := &Summary{}
	err := r.each(ctx, rels, sum, func(rel string) error {
		return r.splitStage(ctx, rel, sum)
	})
	return sum, err
}

// Combine runs stubdoc.Combine on every relative path.
func (r *Runner) Combine(ctx context.Context, rels []string) (*Summary, error) {
	sum := &Summary{}
	err := r.each(ctx, rels, sum, func(rel string) error {
		return r.combineStage(ctx, rel, sum)
	})
	return sum, err
}

func (r *Runner) each(ctx context.Context, rels []string, sum *Summary, fn func(rel string) error) error {
	var errs []error
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := fn(rel); err != nil {
			sum.Failed++
			r.logger().Error("stub failed", "path", rel, "error", err)
			if !r.KeepGoing {
				return err
			}
			errs = append(errs, err)
			continue
		}
		sum.Processed++
	}
	return errors.Join(errs...)
}

func (r *Runner) splitStage(ctx context.Context, rel string, sum *Summary) error {
	log := r.logger().With("op", storage.OpSplit, "path", rel)
	stubPath := stubdoc.StubPath(r.StubRoot, rel)
	docPath := stubdoc.DocPath(r.DocRoot, rel)

	if err := r.checkStage(ctx, rel); err != nil {
		return err
	}

	if r.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(docPath), 0o755); err != nil {
			return fmt.Errorf("create doc directory for %s: %w", rel, err)
		}
	}

	res, err := stubdoc.Split(r.StubRoot, r.DocRoot, rel)
	if err != nil {
		return err
	}

	log.Debug("docstring output", "doc_path", res.DocPath, "content", stubdoc.JoinLines(res.Doc))
	if res.Report.Unterminated {
		log.Warn("input ended inside a docstring block")
	}
	log.Info("split",
		"docstrings", res.Report.Docstrings,
		"class_contexts", res.Report.ClassContexts,
		"stub_lines", res.Report.StubLines,
		"doc_lines", res.Report.DocLines)
	sum.Docstrings += res.Report.Docstrings

	return r.journalStage(ctx, rel, storage.OpSplit, stubPath, docPath, res.Report.Docstrings)
}

func (r *Runner) checkStage(ctx context.Context, rel string) error {
	if !r.Strict || r.Checker == nil {
		return nil
	}
	stubPath := stubdoc.StubPath(r.StubRoot, rel)
	// A missing stub is reported by stubdoc.Split with its own error type.
	if ok, err := fsutil.Exists(stubPath); err != nil || !ok {
		return err
	}

	issues, err := r.Checker.CheckFile(ctx, stubPath)
	if err != nil {
		return fmt.Errorf("check %s: %w", rel, err)
	}
	if len(issues) > 0 {
		return &extractor.UnsupportedConstructError{Path: rel, Issues: issues}
	}
	return nil
}

func (r *Runner) combineStage(ctx context.Context, rel string, sum *Summary) error {
	log := r.logger().With("op", storage.OpCombine, "path", rel)

	res, err := stubdoc.Combine(r.StubRoot, r.DocRoot, rel)
	if err != nil {
		return err
	}

	for _, name := range res.Report.Orphans {
		log.Warn("docstring has no matching definition in stub", "name", name)
	}
	log.Info("combined",
		"definitions", res.Definitions,
		"matched", len(res.Report.Matched),
		"orphans", len(res.Report.Orphans))
	sum.Matched += len(res.Report.Matched)
	sum.Orphans += len(res.Report.Orphans)

	return r.journalStage(ctx, rel, storage.OpCombine, res.StubPath, res.DocPath, res.Definitions)
}

func (r *Runner) journalStage(ctx context.Context, rel string, op storage.Op, stubPath, docPath string, definitions int) error {
	if r.Journal == nil {
		return nil
	}
	stubHash, err := hashFile(stubPath)
	if err != nil {
		return err
	}
	docHash, err := hashFile(docPath)
	if err != nil {
		return err
	}
	if err := r.Journal.Record(ctx, storage.Entry{
		Path:        filepath.ToSlash(rel),
		Op:          op,
		StubHash:    stubHash,
		DocHash:     docHash,
		Definitions: definitions,
	}); err != nil {
		return fmt.Errorf("record %s in journal: %w", rel, err)
	}
	return nil
}

// hashFile returns the hex SHA-256 of a file, or "" if it does not exist.
func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
