package stubdoc

import (
	"slices"
	"strings"
)

// Definition is one captured unit of a docstring file: a def line and every
// line after it up to and including the closing "pass".
type Definition struct {
	Name  string
	Class string // enclosing class, empty for top-level functions
	Start int    // zero-based index of the def line in the docstring file
	Lines []string
}

// QualifiedName returns "Class.name" for methods and "name" otherwise.
func (d *Definition) QualifiedName() string {
	if d.Class == "" {
		return d.Name
	}
	return d.Class + "." + d.Name
}

// DefinitionMap is a name-keyed mapping that remembers first-insertion order.
// Re-inserting a name replaces the definition but keeps its position.
type DefinitionMap struct {
	order []string
	defs  map[string]*Definition
}

func newDefinitionMap() *DefinitionMap {
	return &DefinitionMap{defs: make(map[string]*Definition)}
}

func (m *DefinitionMap) put(d *Definition) {
	if _, ok := m.defs[d.Name]; !ok {
		m.order = append(m.order, d.Name)
	}
	m.defs[d.Name] = d
}

// Get is safe to call on a nil map.
func (m *DefinitionMap) Get(name string) (*Definition, bool) {
	if m == nil {
		return nil, false
	}
	d, ok := m.defs[name]
	return d, ok
}

func (m *DefinitionMap) Names() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

func (m *DefinitionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// DocIndex holds every definition of a docstring file, split into top-level
// functions and per-class methods.
type DocIndex struct {
	TopLevel   *DefinitionMap
	classes    map[string]*DefinitionMap
	classOrder []string
}

func newDocIndex() *DocIndex {
	return &DocIndex{
		TopLevel: newDefinitionMap(),
		classes:  make(map[string]*DefinitionMap),
	}
}

// classScope returns the method map for a class, creating it on first use. A
// class that shows up twice in one file keeps the methods of both headers.
func (x *DocIndex) classScope(name string) *DefinitionMap {
	if m, ok := x.classes[name]; ok {
		return m
	}
	m := newDefinitionMap()
	x.classes[name] = m
	x.classOrder = append(x.classOrder, name)
	return m
}

// Methods returns the method map of a class, or nil when the class is unknown.
func (x *DocIndex) Methods(class string) *DefinitionMap {
	return x.classes[class]
}

// Classes lists class names in first-seen order.
func (x *DocIndex) Classes() []string {
	return slices.Clone(x.classOrder)
}

// Definitions returns all definitions: top-level ones first, then methods
// class by class.
func (x *DocIndex) Definitions() []*Definition {
	var out []*Definition
	for _, name := range x.TopLevel.order {
		out = append(out, x.TopLevel.defs[name])
	}
	for _, cls := range x.classOrder {
		m := x.classes[cls]
		for _, name := range m.order {
			out = append(out, m.defs[name])
		}
	}
	return out
}

// Len is the total number of indexed definitions.
func (x *DocIndex) Len() int {
	n := x.TopLevel.Len()
	for _, m := range x.classes {
		n += m.Len()
	}
	return n
}

// IndexDocstrings scans docstring file lines and builds the lookup index.
// The file is a sequence of blank lines, column-0 "def" units and column-0
// "class" headers followed by indented "def" units. Anything else is an
// UnexpectedLineError.
func IndexDocstrings(lines []string) (*DocIndex, error) {
	idx := newDocIndex()

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, classPrefix):
			cls := className(line)
			methods := idx.classScope(cls)
			i++
			for i < len(lines) {
				l := lines[i]
				if isBlank(l) {
					i++
					continue
				}
				if !isIndented(l) {
					break
				}
				if !isDefLine(strings.TrimSpace(l)) {
					return nil, unexpectedLine(i, l)
				}
				var d *Definition
				d, i = gatherDefinition(lines, i, cls)
				methods.put(d)
			}
		case strings.HasPrefix(line, defPrefix):
			var d *Definition
			d, i = gatherDefinition(lines, i, "")
			idx.TopLevel.put(d)
		case isBlank(line):
			i++
		default:
			return nil, unexpectedLine(i, line)
		}
	}
	return idx, nil
}

// gatherDefinition captures lines[start] through the "pass" that ends its
// docstring block, or through the end of input. It returns the index of the
// first line after the capture.
func gatherDefinition(lines []string, start int, class string) (*Definition, int) {
	var block docBlock
	i := start + 1
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		i++
		if block.feed(trimmed) {
			break
		}
	}
	return &Definition{
		Name:  defName(lines[start]),
		Class: class,
		Start: start,
		Lines: slices.Clone(lines[start:i]),
	}, i
}

func unexpectedLine(i int, line string) error {
	return &UnexpectedLineError{Index: i, Content: strings.TrimRight(line, "\r\n")}
}

// MergeReport summarizes one merge.
type MergeReport struct {
	// Matched lists qualified names substituted into the stub, in stub order.
	Matched []string
	// Orphans lists docstring definitions that matched nothing in the stub.
	// They are dropped from the output.
	Orphans []string
}

// MergeStub re-inserts indexed definitions into stub lines. Lookup is by name
// so the order of definitions in the docstring file does not matter. Stub
// signatures with no indexed counterpart are left as they are.
func MergeStub(stub []string, idx *DocIndex) ([]string, MergeReport) {
	var (
		out    []string
		report MergeReport
		used   = make(map[*Definition]bool)
	)
	// substitute splices d in place of the stub line it replaces. A capture
	// taken from the end of a docstring file may lack a line ending; it gets
	// the replaced line's ending so the next stub line stays on its own line.
	substitute := func(d *Definition, replaced string) {
		start := len(out)
		out = append(out, d.Lines...)
		if last := len(out) - 1; last >= start && !strings.HasSuffix(out[last], "\n") {
			out[last] += lineEnding(replaced)
		}
		if !used[d] {
			report.Matched = append(report.Matched, d.QualifiedName())
		}
		used[d] = true
	}

	i := 0
	for i < len(stub) {
		line := stub[i]
		i++
		switch {
		case strings.HasPrefix(line, classPrefix):
			methods := idx.Methods(className(line))
			out = append(out, line)
			// The class body runs until the first non-blank unindented line,
			// which is left for the outer loop.
			for i < len(stub) {
				l := stub[i]
				if !isBlank(l) && !isIndented(l) {
					break
				}
				i++
				trimmed := strings.TrimSpace(l)
				if isDefLine(trimmed) {
					if d, ok := methods.Get(defName(trimmed)); ok {
						substitute(d, l)
						continue
					}
				}
				out = append(out, l)
			}
		case strings.HasPrefix(line, defPrefix):
			if d, ok := idx.TopLevel.Get(defName(line)); ok {
				substitute(d, line)
				continue
			}
			out = append(out, line)
		default:
			out = append(out, line)
		}
	}

	for _, d := range idx.Definitions() {
		if !used[d] {
			report.Orphans = append(report.Orphans, d.QualifiedName())
		}
	}
	return out, report
}
