package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/build"
	"git.home.luguber.info/inful/sitewatch/internal/diagnostics"
)

func render(t *testing.T, result build.CompilationResult) string {
	t.Helper()
	var buf bytes.Buffer
	New(&buf).Report(diagnostics.Classify(result))
	return buf.String()
}

func TestReport_Success(t *testing.T) {
	assert.Equal(t, "Compiled successfully!\n\n", render(t, build.CompilationResult{}))
}

func TestReport_SyntaxErrorScenario(t *testing.T) {
	out := render(t, build.NewCompilationResult(
		[]string{"Module build failed: SyntaxError: Unexpected token\n    at Parser.pp.raise (/a/b.js:1:2)\n"},
		nil,
	))

	assert.Equal(t, "Failed to compile.\n\nError in Syntax error: Unexpected token\n\n\n", out)
	assert.NotContains(t, out, "Warning in")
	assert.NotContains(t, out, HintLead)
}

func TestReport_ErrorsSuppressWarnings(t *testing.T) {
	out := render(t, build.NewCompilationResult([]string{"bad"}, []string{"w1", "w2", "w3"}))
	assert.NotContains(t, out, WarningLine)
	assert.NotContains(t, out, "Warning in")
	assert.Equal(t, 1, strings.Count(out, "Error in "))
}

func TestReport_WarningScenario(t *testing.T) {
	out := render(t, build.NewCompilationResult(nil,
		[]string{"Module not found: Error: Cannot resolve 'file' or 'directory' ./x.css"}))

	want := "Compiled with warnings.\n\n" +
		"Warning in Module not found: ./x.css\n\n" +
		"You may use special comments to disable some warnings.\n" +
		"Use // eslint-disable-next-line to ignore the next line.\n" +
		"Use /* eslint-disable */ to ignore all warnings in a file.\n"
	assert.Equal(t, want, out)
}

func TestReport_AllWarningsThenTwoHints(t *testing.T) {
	out := render(t, build.NewCompilationResult(nil, []string{"a", "b", "c"}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "Use // eslint-disable-next-line"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Use /* eslint-disable */"))
	for _, w := range []string{"a", "b", "c"} {
		assert.Contains(t, out, "Warning in "+w+"\n")
	}
}

func TestClearAndCompiling(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	d.Clear()
	d.Compiling()
	assert.Equal(t, "\x1b[2J\x1b[0fCompiling...\n", buf.String())

	buf.Reset()
	quiet := New(&buf, WithoutClear())
	quiet.Clear()
	assert.Empty(t, buf.String())
}
