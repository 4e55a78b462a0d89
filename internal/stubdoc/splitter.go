package stubdoc

import (
	"strings"
)

type splitState int

const (
	stateNormal splitState = iota
	statePendingSignature
	stateInDocstring
)

func (s splitState) String() string {
	switch s {
	case stateNormal:
		return "Normal"
	case statePendingSignature:
		return "PendingSignature"
	case stateInDocstring:
		return "InDocstring"
	}
	return "Unknown"
}

// SplitReport summarizes one split.
type SplitReport struct {
	Docstrings    int // docstring blocks moved to the docstring file
	ClassContexts int // class headers copied into the docstring file
	StubLines     int
	DocLines      int
	// Unterminated is set when input ended inside a docstring block.
	Unterminated bool
}

// splitter is a single forward pass over stub lines with one line of
// lookahead: a def line is held as pending until the next line shows whether
// a docstring follows it.
type splitter struct {
	state   splitState
	pending string // def line waiting for classification
	class   string // last class header seen, empty when cleared
	block   docBlock

	stub   []string
	doc    []string
	report SplitReport
}

// SplitStub separates docstring blocks from a stub file. It returns the
// stripped stub lines, where each documented signature gets a " ..." body,
// and the docstring file lines.
func SplitStub(lines []string) (stub, doc []string, report SplitReport) {
	s := &splitter{}
	for _, line := range lines {
		s.step(line)
	}
	s.finish()

	s.report.StubLines = len(s.stub)
	s.report.DocLines = len(s.doc)
	return s.stub, s.doc, s.report
}

func (s *splitter) step(line string) {
	trimmed := strings.TrimSpace(line)

	if s.state == statePendingSignature {
		if opensDocstring(trimmed) {
			s.openDocstring()
		} else {
			s.flushPending()
		}
	}

	switch s.state {
	case stateInDocstring:
		s.doc = append(s.doc, line)
		if s.block.feed(trimmed) {
			s.state = stateNormal
		}
	case stateNormal:
		switch {
		case isDefLine(trimmed):
			s.pending = line
			s.state = statePendingSignature
		case isClassLine(trimmed):
			s.class = line
			s.stub = append(s.stub, line)
		default:
			s.stub = append(s.stub, line)
		}
	}
}

func (s *splitter) openDocstring() {
	if s.class != "" && isIndented(s.pending) {
		s.doc = append(s.doc, "\n", s.class)
		s.report.ClassContexts++
	}
	s.stub = append(s.stub, stubSignature(s.pending))
	s.doc = append(s.doc, s.pending)
	s.report.Docstrings++

	s.class = ""
	s.pending = ""
	s.block = docBlock{}
	s.state = stateInDocstring
}

func (s *splitter) flushPending() {
	s.stub = append(s.stub, s.pending)
	if !isIndented(s.pending) {
		s.class = ""
	}
	s.pending = ""
	s.state = stateNormal
}

func (s *splitter) finish() {
	switch s.state {
	case statePendingSignature:
		s.flushPending()
	case stateInDocstring:
		s.report.Unterminated = true
	}
}
