package diagnostics

import (
	"regexp"
	"strings"
)

// SyntaxErrorLabel is the canonical prefix of a rewritten parser failure.
const SyntaxErrorLabel = "Syntax error:"

const (
	babelSyntaxError  = "Module build failed: SyntaxError:"
	moduleNotFound    = "Module not found:"
	cssLoaderChain    = "./~/css-loader!./~/postcss-loader!"
	stackLinePattern  = `(?m)^\s*at\s.*:\d+:\d+[\s)]*(?:\n|\z)`
	unresolvedPattern = `Module not found: Error: Cannot resolve 'file' or 'directory'`
)

var (
	stackLineRe  = regexp.MustCompile(stackLinePattern)
	unresolvedRe = regexp.MustCompile(unresolvedPattern)
)

// Format shortens one raw bundler message. Rewrites apply in a fixed order:
// parser failures become "Syntax error:", unresolved modules become
// "Module not found:", internal stack frames ("at fn (file:line:col)") are
// dropped and the css loader chain is removed so the real file name shows.
func Format(raw string) string {
	msg := strings.Replace(raw, babelSyntaxError, SyntaxErrorLabel, 1)
	if loc := unresolvedRe.FindStringIndex(msg); loc != nil {
		msg = msg[:loc[0]] + moduleNotFound + msg[loc[1]:]
	}
	msg = stackLineRe.ReplaceAllString(msg, "")
	return strings.Replace(msg, cssLoaderChain, "", 1)
}

// IsLikelySyntaxError reports whether a formatted message is a parser failure.
func IsLikelySyntaxError(formatted string) bool {
	return strings.Contains(formatted, SyntaxErrorLabel)
}
