package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor implements LanguageExtractor for Python stubs.
type PythonExtractor struct{}

func (p *PythonExtractor) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

func (p *PythonExtractor) GetQuery() string {
	return `
		(class_definition) @class
		(function_definition) @function
	`
}

func (p *PythonExtractor) ExtractUnit(captureName string, node *sitter.Node, sourceCode []byte, filepath string) *CodeUnit {
	var kind string
	switch captureName {
	case "class":
		kind = KindClass
	case "function":
		kind = KindFunction
	default:
		return nil
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	unit := &CodeUnit{
		Filepath:      filepath,
		Kind:          kind,
		Name:          nameNode.Content(sourceCode),
		StartLine:     int(node.StartPoint().Row + 1),
		EndLine:       int(node.EndPoint().Row + 1),
		HeaderEndLine: headerEndLine(node),
		Docstring:     hasDocstring(node),
		Guarded:       guarded(node),
	}
	p.fillEnclosing(unit, node, sourceCode)
	return unit
}

// fillEnclosing walks up the tree and records how deeply the definition is
// nested and which definition directly encloses it.
func (p *PythonExtractor) fillEnclosing(unit *CodeUnit, node *sitter.Node, sourceCode []byte) {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		var kind string
		switch parent.Type() {
		case "class_definition":
			kind = KindClass
		case "function_definition":
			kind = KindFunction
		default:
			continue
		}
		unit.Depth++
		if unit.Parent == "" {
			if name := parent.ChildByFieldName("name"); name != nil {
				unit.Parent = name.Content(sourceCode)
			}
			unit.ParentKind = kind
		}
	}
}

// headerEndLine finds the ':' token that ends a def or class header. Without
// one, the end of the last header field is used.
func headerEndLine(node *sitter.Node) int {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == ":" {
			return int(child.StartPoint().Row + 1)
		}
	}

	row := node.StartPoint().Row
	for _, field := range []string{"name", "type_parameters", "parameters", "superclasses", "return_type"} {
		if n := node.ChildByFieldName(field); n != nil && n.EndPoint().Row > row {
			row = n.EndPoint().Row
		}
	}
	return int(row + 1)
}

func hasDocstring(node *sitter.Node) bool {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return false
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return false
	}
	return first.NamedChild(0).Type() == "string"
}

// guarded reports whether a definition is nested in a compound statement
// (if, try, with, ...) rather than sitting directly in a module, class or
// function body. Decorators are looked through.
func guarded(node *sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Type() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "module":
		return false
	case "block":
		owner := parent.Parent()
		return owner == nil || (owner.Type() != "class_definition" && owner.Type() != "function_definition")
	}
	return true
}
