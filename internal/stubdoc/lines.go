package stubdoc

import (
	"strings"
)

const (
	defPrefix   = "def "
	classPrefix = "class "
	passLine    = "pass"
)

// SplitLines breaks raw file content into lines, keeping each line's
// terminating newline. The last line has no newline if the content didn't end
// with one. Joining the result reproduces the input exactly.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
	}
	return b.String()
}

func isDefLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, defPrefix)
}

func isClassLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, classPrefix)
}

// isIndented reports whether the line starts with whitespace. Methods are
// indented, top-level definitions are not.
func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func opensDocstring(trimmed string) bool {
	return strings.HasPrefix(trimmed, `'''`) || strings.HasPrefix(trimmed, `"""`)
}

// docBlock follows a docstring block from the line after its signature to
// the "pass" that ends it. A "pass" inside the docstring text is not an end:
// only one after the closing delimiter counts. Without a docstring the first
// "pass" ends the block.
type docBlock struct {
	started bool
	delim   string
	closed  bool
}

// feed consumes the next trimmed line and reports whether it ended the block.
func (b *docBlock) feed(trimmed string) bool {
	if !b.started {
		b.started = true
		if opensDocstring(trimmed) {
			b.delim = trimmed[:3]
			b.closed = strings.Count(trimmed, b.delim) >= 2
			return false
		}
		b.closed = true
	}
	if !b.closed {
		b.closed = strings.Contains(trimmed, b.delim)
		return false
	}
	return trimmed == passLine
}

// stubSignature turns "def f(x):\n" into "def f(x): ...\n".
func stubSignature(line string) string {
	body := strings.TrimSuffix(line, "\n")
	eol := "\n"
	if strings.HasSuffix(body, "\r") {
		body = strings.TrimSuffix(body, "\r")
		eol = "\r\n"
	}
	return body + " ..." + eol
}

// lineEnding returns the "\n" or "\r\n" that terminates line, or "" for a
// final line without one.
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

// defName extracts "name" from "def name(...)". The line may be indented.
func defName(line string) string {
	ls := strings.TrimSpace(line)
	ls = strings.TrimPrefix(ls, defPrefix)
	if i := strings.IndexByte(ls, '('); i >= 0 {
		ls = ls[:i]
	}
	return strings.TrimSpace(ls)
}

// className extracts "Name" from "class Name(Base):" or "class Name:".
func className(line string) string {
	ls := strings.TrimSpace(line)
	ls = strings.TrimPrefix(ls, classPrefix)
	if i := strings.IndexAny(ls, "(:"); i >= 0 {
		ls = ls[:i]
	}
	return strings.TrimSpace(ls)
}
