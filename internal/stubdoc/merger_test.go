package stubdoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexDocstrings_Widget(t *testing.T) {
	idx, err := IndexDocstrings(SplitLines(widgetDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "gamma"}, idx.TopLevel.Names())
	assert.Equal(t, []string{"Widget"}, idx.Classes())
	assert.Equal(t, []string{"grow", "paint"}, idx.Methods("Widget").Names())
	assert.Equal(t, 4, idx.Len())

	t.Run("Captured ranges", func(t *testing.T) {
		alpha, ok := idx.TopLevel.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, 0, alpha.Start)
		assert.Len(t, alpha.Lines, 6, "pass inside the docstring text must not end the capture")

		grow, ok := idx.Methods("Widget").Get("grow")
		require.True(t, ok)
		assert.Equal(t, "Widget", grow.Class)
		assert.Equal(t, "Widget.grow", grow.QualifiedName())
		assert.Equal(t, "    def grow(self, n):\n", grow.Lines[0])
		assert.Equal(t, "        pass\n", grow.Lines[len(grow.Lines)-1])
	})

	t.Run("Unknown class", func(t *testing.T) {
		assert.Nil(t, idx.Methods("Nope"))
		_, ok := idx.Methods("Nope").Get("grow")
		assert.False(t, ok)
	})
}

func TestIndexDocstrings_DuplicatesOverwrite(t *testing.T) {
	idx, err := IndexDocstrings(SplitLines(`def f():
    '''first'''
    pass
def g():
    '''g'''
    pass
def f():
    '''second'''
    pass
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"f", "g"}, idx.TopLevel.Names())
	f, ok := idx.TopLevel.Get("f")
	require.True(t, ok)
	assert.Equal(t, "    '''second'''\n", f.Lines[1])
}

func TestIndexDocstrings_RepeatedClassHeaderMergesMethods(t *testing.T) {
	idx, err := IndexDocstrings(SplitLines(`class A:
    def m1(self):
        '''a'''
        pass

def f():
    '''f'''
    pass

class A:
    def m2(self):
        '''b'''
        pass
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, idx.Classes())
	assert.Equal(t, []string{"m1", "m2"}, idx.Methods("A").Names())
	assert.Equal(t, []string{"f"}, idx.TopLevel.Names())
}

func TestIndexDocstrings_UnexpectedLine(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		index   int
		content string
	}{
		{
			name:    "garbage at top level",
			doc:     "def f(x):\n    pass\ngarbage\n",
			index:   2,
			content: "garbage",
		},
		{
			name:    "non-def inside class scope",
			doc:     "class A:\n    x = 1\n",
			index:   1,
			content: "    x = 1",
		},
		{
			name:    "indented def at top level",
			doc:     "\n    def m(self):\n        pass\n",
			index:   1,
			content: "    def m(self):",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IndexDocstrings(SplitLines(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedLine))

			var lineErr *UnexpectedLineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tt.index, lineErr.Index)
			assert.Equal(t, tt.content, lineErr.Content)
		})
	}
}

func TestMergeStub_RoundTrip(t *testing.T) {
	stub, doc, _ := SplitStub(SplitLines(widgetStub))
	idx, err := IndexDocstrings(doc)
	require.NoError(t, err)

	merged, report := MergeStub(stub, idx)

	assert.Equal(t, widgetStub, JoinLines(merged))
	assert.Equal(t, []string{"alpha", "Widget.grow", "Widget.paint", "gamma"}, report.Matched)
	assert.Empty(t, report.Orphans)
}

func TestMergeStub_SingleFunctionScenario(t *testing.T) {
	original := []string{"def foo(x):\n", "    '''doc'''\n", "    pass\n"}
	stub, doc, _ := SplitStub(original)

	idx, err := IndexDocstrings(doc)
	require.NoError(t, err)
	merged, _ := MergeStub(stub, idx)

	assert.Equal(t, original, merged)
}

func TestMergeStub_DocWithoutFinalNewline(t *testing.T) {
	t.Run("Top-level", func(t *testing.T) {
		_, doc, _ := SplitStub(SplitLines("def foo(x):\n    '''Foo.'''\n    pass"))
		idx, err := IndexDocstrings(doc)
		require.NoError(t, err)

		merged, report := MergeStub(SplitLines("def foo(x): ...\ndef bar(): ...\n"), idx)

		assert.Equal(t, "def foo(x):\n    '''Foo.'''\n    pass\ndef bar(): ...\n", JoinLines(merged))
		assert.Equal(t, []string{"foo"}, report.Matched)
	})

	t.Run("Method", func(t *testing.T) {
		idx, err := IndexDocstrings(SplitLines("class A:\n    def m(self):\n        '''M.'''\n        pass"))
		require.NoError(t, err)

		merged, _ := MergeStub(SplitLines("class A:\n    def m(self): ...\n    def n(self): ...\n"), idx)

		assert.Equal(t, "class A:\n    def m(self):\n        '''M.'''\n        pass\n    def n(self): ...\n", JoinLines(merged))
	})

	t.Run("CRLF stub", func(t *testing.T) {
		idx, err := IndexDocstrings(SplitLines("def foo():\r\n    '''Foo.'''\r\n    pass"))
		require.NoError(t, err)

		merged, _ := MergeStub(SplitLines("def foo(): ...\r\nx: int\r\n"), idx)

		assert.Equal(t, "def foo():\r\n    '''Foo.'''\r\n    pass\r\nx: int\r\n", JoinLines(merged))
	})
}

func TestMergeStub_ReorderedDocstrings(t *testing.T) {
	original := `class C:
    def m(self):
        '''Method doc.'''
        pass

def f():
    '''F doc.'''
    pass

def g(): ...
`
	stub, _, _ := SplitStub(SplitLines(original))

	// The method block now comes after an unrelated top-level function.
	reordered := `def f():
    '''F doc.'''
    pass

class C:
    def m(self):
        '''Method doc.'''
        pass
`
	idx, err := IndexDocstrings(SplitLines(reordered))
	require.NoError(t, err)

	merged, report := MergeStub(stub, idx)
	assert.Equal(t, original, JoinLines(merged))
	assert.ElementsMatch(t, []string{"C.m", "f"}, report.Matched)
}

func TestMergeStub_NoMatchingNamesLeavesStubUnchanged(t *testing.T) {
	stub := SplitLines(widgetStripped)
	idx, err := IndexDocstrings(SplitLines(`def unrelated():
    '''x'''
    pass

class Other:
    def m(self):
        '''y'''
        pass
`))
	require.NoError(t, err)

	merged, report := MergeStub(stub, idx)

	assert.Equal(t, stub, merged)
	assert.Empty(t, report.Matched)
	assert.Equal(t, []string{"unrelated", "Other.m"}, report.Orphans)
}

func TestMergeStub_MethodNotMatchedAtTopLevel(t *testing.T) {
	stub := SplitLines("class A:\n    def m(self): ...\ndef m(): ...\n")
	idx, err := IndexDocstrings(SplitLines("def m():\n    '''top'''\n    pass\n"))
	require.NoError(t, err)

	merged, _ := MergeStub(stub, idx)

	assert.Equal(t, "class A:\n    def m(self): ...\ndef m():\n    '''top'''\n    pass\n", JoinLines(merged))
}

func TestMergeStub_BlankLinesInsideClassBody(t *testing.T) {
	stub := SplitLines("class A:\n    def a(self): ...\n\n    def b(self): ...\n")
	idx, err := IndexDocstrings(SplitLines("class A:\n    def b(self):\n        '''B.'''\n        pass\n"))
	require.NoError(t, err)

	merged, report := MergeStub(stub, idx)

	assert.Equal(t, "class A:\n    def a(self): ...\n\n    def b(self):\n        '''B.'''\n        pass\n", JoinLines(merged))
	assert.Equal(t, []string{"A.b"}, report.Matched)
}

func TestMergeStub_AddedAndRemovedDefinitions(t *testing.T) {
	original := `def kept():
    '''Kept.'''
    pass
def removed():
    '''Removed.'''
    pass
`
	_, doc, _ := SplitStub(SplitLines(original))

	// The stub was regenerated: removed() is gone and added() is new.
	stub := SplitLines("def added(): ...\ndef kept(): ...\n")
	idx, err := IndexDocstrings(doc)
	require.NoError(t, err)

	merged, report := MergeStub(stub, idx)

	assert.Equal(t, "def added(): ...\ndef kept():\n    '''Kept.'''\n    pass\n", JoinLines(merged))
	assert.Equal(t, []string{"removed"}, report.Orphans)
}
