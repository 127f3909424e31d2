package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/build"
)

func TestClassify_Success(t *testing.T) {
	r := Classify(build.CompilationResult{})
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.True(t, r.Succeeded())
}

func TestClassify_SyntaxErrorMasksOtherErrors(t *testing.T) {
	result := build.NewCompilationResult([]string{
		"./src/App.js\n  1:1  error  Parsing error: Unexpected token",
		"./src/App.js\nModule build failed: SyntaxError: Unexpected token (1:5)\n    at Parser.pp.raise (/a/b.js:1:2)\n",
		"Module not found: Error: Cannot resolve 'file' or 'directory' ./x.css",
		"./src/Other.js\nModule build failed: SyntaxError: Missing semicolon (2:1)",
	}, []string{"a warning"})

	r := Classify(result)

	require.Equal(t, StatusErrors, r.Status)
	assert.Equal(t, []string{
		"./src/App.js\nSyntax error: Unexpected token (1:5)\n",
		"./src/Other.js\nSyntax error: Missing semicolon (2:1)",
	}, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.False(t, r.Succeeded())
}

func TestClassify_FilteredErrorsAreExactlyTheSyntaxSubset(t *testing.T) {
	raw := []string{
		"Module build failed: SyntaxError: a",
		"lint: b",
		"Module build failed: SyntaxError: c",
		"lint: d",
	}
	r := Classify(build.NewCompilationResult(raw, nil))

	var want []string
	for _, m := range raw {
		if f := Format(m); IsLikelySyntaxError(f) {
			want = append(want, f)
		}
	}
	assert.Equal(t, want, r.Errors)
}

func TestClassify_ErrorsWithoutSyntaxKeepOrder(t *testing.T) {
	r := Classify(build.NewCompilationResult([]string{"first", "second", "third"}, []string{"w"}))
	assert.Equal(t, []string{"first", "second", "third"}, r.Errors)
	assert.Empty(t, r.Warnings, "warnings are never shown alongside errors")
}

func TestClassify_WarningsOnly(t *testing.T) {
	r := Classify(build.NewCompilationResult(nil, []string{
		"Module not found: Error: Cannot resolve 'file' or 'directory' ./x.css",
		"./src/App.js\n  Line 3: 'x' is defined but never used",
	}))

	require.Equal(t, StatusWarnings, r.Status)
	assert.True(t, r.Succeeded())
	require.Len(t, r.Warnings, 2)
	assert.Equal(t, "Module not found: ./x.css", r.Warnings[0])
	assert.True(t, strings.HasPrefix(r.Warnings[1], "./src/App.js"))
}
