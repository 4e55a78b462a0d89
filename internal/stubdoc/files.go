// Package stubdoc splits docstrings out of Python stub files into companion
// .ds files and merges them back.
package stubdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"stubsplit/internal/fsutil"
)

// DocSuffix is appended to a stub's relative path to name its docstring file.
const DocSuffix = ".ds"

// StubPath resolves rel under the stub root.
func StubPath(stubRoot, rel string) string {
	return filepath.Join(stubRoot, rel)
}

// DocPath resolves rel under the doc root, with DocSuffix appended.
func DocPath(docRoot, rel string) string {
	return filepath.Join(docRoot, rel) + DocSuffix
}

// SplitResult describes a completed split.
type SplitResult struct {
	StubPath string
	DocPath  string
	Doc      []string // docstring file content as written
	Report   SplitReport
}

// CombineResult describes a completed combine.
type CombineResult struct {
	StubPath    string
	DocPath     string
	Definitions int // definitions indexed from the docstring file
	Report      MergeReport
}

// Split moves the docstrings of stubRoot/rel into docRoot/rel.ds and rewrites
// the stub in place with signature-only bodies. The doc file's directory must
// already exist. The doc file is written before the stub is replaced.
func Split(stubRoot, docRoot, rel string) (*SplitResult, error) {
	stubPath := StubPath(stubRoot, rel)
	docPath := DocPath(docRoot, rel)

	lines, err := readLines(stubPath, StubFile, rel)
	if err != nil {
		return nil, err
	}

	stub, doc, report := SplitStub(lines)

	if err := fsutil.WriteFileAtomic(docPath, []byte(JoinLines(doc)), 0); err != nil {
		return nil, fmt.Errorf("write doc file %s: %w", docPath, err)
	}
	if err := fsutil.WriteFileAtomic(stubPath, []byte(JoinLines(stub)), 0); err != nil {
		return nil, fmt.Errorf("write stub file %s: %w", stubPath, err)
	}

	return &SplitResult{
		StubPath: stubPath,
		DocPath:  docPath,
		Doc:      doc,
		Report:   report,
	}, nil
}

// Combine merges docRoot/rel.ds back into stubRoot/rel and rewrites the stub
// in place. Both files must exist. The stub is not touched if the docstring
// file fails to index.
func Combine(stubRoot, docRoot, rel string) (*CombineResult, error) {
	stubPath := StubPath(stubRoot, rel)
	docPath := DocPath(docRoot, rel)

	stubLines, err := readLines(stubPath, StubFile, rel)
	if err != nil {
		return nil, err
	}
	docLines, err := readLines(docPath, DocFile, rel+DocSuffix)
	if err != nil {
		return nil, err
	}

	idx, err := IndexDocstrings(docLines)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", docPath, err)
	}

	merged, report := MergeStub(stubLines, idx)
	if err := fsutil.WriteFileAtomic(stubPath, []byte(JoinLines(merged)), 0); err != nil {
		return nil, fmt.Errorf("write stub file %s: %w", stubPath, err)
	}

	return &CombineResult{
		StubPath:    stubPath,
		DocPath:     docPath,
		Definitions: idx.Len(),
		Report:      report,
	}, nil
}

func readLines(path string, kind FileKind, rel string) ([]string, error) {
	ok, err := fsutil.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingFileError{Kind: kind, Rel: rel, Path: path}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file %s: %w", kind, path, err)
	}
	return SplitLines(string(data)), nil
}
