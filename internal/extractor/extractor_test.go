package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("cobol")
	assert.Error(t, err)
}

func TestExtractor_ExtractFromFile(t *testing.T) {
	testFile := filepath.Join("testdata", "widget.pyi")

	ext, err := NewExtractor("python")
	require.NoError(t, err)

	units, err := ext.ExtractFromFile(context.Background(), testFile)
	require.NoError(t, err)

	unitsByName := make(map[string]*CodeUnit)
	for _, unit := range units {
		unitsByName[unit.Name] = unit
	}

	t.Run("Overall Count", func(t *testing.T) {
		assert.Len(t, units, 4, "alpha, Widget, grow, paint")
		assert.Equal(t, "alpha", units[0].Name, "units are ordered by position")
	})

	t.Run("Top-level function", func(t *testing.T) {
		unit, ok := unitsByName["alpha"]
		require.True(t, ok)
		assert.Equal(t, KindFunction, unit.Kind)
		assert.Equal(t, 0, unit.Depth)
		assert.Empty(t, unit.Parent)
		assert.Equal(t, 1, unit.StartLine)
		assert.Equal(t, 3, unit.EndLine)
		assert.Equal(t, 1, unit.HeaderEndLine)
		assert.True(t, unit.Docstring)
	})

	t.Run("Class", func(t *testing.T) {
		unit, ok := unitsByName["Widget"]
		require.True(t, ok)
		assert.Equal(t, KindClass, unit.Kind)
		assert.Equal(t, 5, unit.StartLine)
		assert.False(t, unit.Docstring)
	})

	t.Run("Methods", func(t *testing.T) {
		grow, ok := unitsByName["grow"]
		require.True(t, ok)
		assert.Equal(t, "Widget", grow.Parent)
		assert.Equal(t, KindClass, grow.ParentKind)
		assert.Equal(t, 1, grow.Depth)
		assert.False(t, grow.Docstring)

		paint, ok := unitsByName["paint"]
		require.True(t, ok)
		assert.True(t, paint.Docstring)
	})

	t.Run("No issues", func(t *testing.T) {
		assert.Empty(t, Check(units))
	})
}

func TestExtractor_CheckFile(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	issues, err := ext.CheckFile(context.Background(), filepath.Join("testdata", "unsupported.pyi"))
	require.NoError(t, err)

	assert.Equal(t, []Issue{
		{Kind: NestedClass, Name: "Inner", Line: 2},
		{Kind: NestedFunction, Name: "m", Line: 3},
		{Kind: MultiLineSignature, Name: "wrapped", Line: 6},
		{Kind: NestedFunction, Name: "inner", Line: 12},
	}, issues)
}

func TestExtractor_GuardedDefinitions(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	units, err := ext.ExtractFromFile(context.Background(), filepath.Join("testdata", "guarded.pyi"))
	require.NoError(t, err)

	guardedByName := make(map[string]bool)
	for _, unit := range units {
		guardedByName[unit.Name] = unit.Guarded
	}
	assert.Equal(t, map[string]bool{
		"foo":   true,
		"Box":   false,
		"open":  true,
		"close": false,
		"bar":   false,
	}, guardedByName, "decorators are not guards")

	assert.Equal(t, []Issue{
		{Kind: GuardedDefinition, Name: "foo", Line: 4},
		{Kind: GuardedDefinition, Name: "open", Line: 10},
	}, Check(units))
}

func TestExtractor_MissingFile(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	_, err = ext.ExtractFromFile(context.Background(), filepath.Join("testdata", "absent.pyi"))
	assert.Error(t, err)
}

func TestUnsupportedConstructError(t *testing.T) {
	err := error(&UnsupportedConstructError{
		Path:   "pkg/mod.pyi",
		Issues: []Issue{{Kind: NestedClass, Name: "Inner", Line: 2}},
	})

	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Equal(t, `pkg/mod.pyi: unsupported constructs: line 2: nested-class "Inner"`, err.Error())
}
