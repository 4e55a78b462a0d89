package extractor

import sitter "github.com/smacker/go-tree-sitter"

const (
	KindClass    = "class"
	KindFunction = "function"
)

// CodeUnit is a class or function definition found in a stub file.
type CodeUnit struct {
	Filepath   string `json:"filepath"`
	Kind       string `json:"kind"` // KindClass or KindFunction
	Name       string `json:"name"`
	Parent     string `json:"parent,omitempty"`      // nearest enclosing definition
	ParentKind string `json:"parent_kind,omitempty"` // kind of Parent
	Depth      int    `json:"depth"`                 // number of enclosing definitions
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	// HeaderEndLine is the line holding the ':' that closes the header.
	HeaderEndLine int  `json:"header_end_line"`
	Docstring     bool `json:"docstring"`
	// Guarded is set when the definition sits under a statement such as
	// "if sys.version_info >= ..." instead of directly in a module or class body.
	Guarded bool `json:"guarded,omitempty"`
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	ExtractUnit(captureName string, node *sitter.Node, sourceCode []byte, filepath string) *CodeUnit
}
