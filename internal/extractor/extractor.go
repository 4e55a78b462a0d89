package extractor

import (
	"context"
	"fmt"
	"os"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "python":
		langExt = &PythonExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// ExtractFromFile parses a single stub file and extracts its definitions.
func (e *Extractor) ExtractFromFile(ctx context.Context, filepath string) ([]*CodeUnit, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.Extract(ctx, filepath, sourceCode)
}

// Extract parses source code and returns its definitions ordered by position.
func (e *Extractor) Extract(ctx context.Context, filepath string, sourceCode []byte) ([]*CodeUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filepath, err)
	}

	query, err := sitter.NewQuery([]byte(e.langExtractor.GetQuery()), e.langExtractor.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var units []*CodeUnit
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			captureName := query.CaptureNameForId(c.Index)
			unit := e.langExtractor.ExtractUnit(captureName, c.Node, sourceCode, filepath)
			if unit != nil {
				units = append(units, unit)
			}
		}
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].StartLine < units[j].StartLine
	})
	return units, nil
}

// CheckFile extracts the definitions of a stub file and reports the
// constructs the line-based splitter cannot handle.
func (e *Extractor) CheckFile(ctx context.Context, filepath string) ([]Issue, error) {
	units, err := e.ExtractFromFile(ctx, filepath)
	if err != nil {
		return nil, err
	}
	return Check(units), nil
}
