package extractor

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupported = errors.New("unsupported construct")

type IssueKind string

const (
	NestedClass        IssueKind = "nested-class"
	NestedFunction     IssueKind = "nested-function"
	MultiLineSignature IssueKind = "multi-line-signature"
	GuardedDefinition  IssueKind = "guarded-definition"
)

// Issue is a construct the line-based splitter would mis-parse.
type Issue struct {
	Kind IssueKind
	Name string
	Line int
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s %q", i.Line, i.Kind, i.Name)
}

// Check inspects extracted units. Supported input is module-level functions
// and module-level classes whose methods have one-line headers, none of them
// under a conditional or other compound statement.
func Check(units []*CodeUnit) []Issue {
	var issues []Issue
	for _, u := range units {
		switch {
		case u.Kind == KindClass && u.Depth > 0:
			issues = append(issues, Issue{Kind: NestedClass, Name: u.Name, Line: u.StartLine})
		case u.Kind == KindFunction && (u.ParentKind == KindFunction || u.Depth > 1):
			issues = append(issues, Issue{Kind: NestedFunction, Name: u.Name, Line: u.StartLine})
		case u.Guarded:
			issues = append(issues, Issue{Kind: GuardedDefinition, Name: u.Name, Line: u.StartLine})
		}
		if u.HeaderEndLine > u.StartLine {
			issues = append(issues, Issue{Kind: MultiLineSignature, Name: u.Name, Line: u.StartLine})
		}
	}
	return issues
}

// UnsupportedConstructError carries the issues found in one stub file.
type UnsupportedConstructError struct {
	Path   string
	Issues []Issue
}

func (e *UnsupportedConstructError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: unsupported constructs: %s", e.Path, strings.Join(parts, "; "))
}

func (e *UnsupportedConstructError) Is(target error) bool { return target == ErrUnsupported }
