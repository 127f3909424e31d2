package diagnostics

import (
	"git.home.luguber.info/inful/sitewatch/internal/build"
)

// Status is the headline of a report.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusWarnings Status = "warnings"
	StatusErrors   Status = "errors"
)

// Report is what the terminal shows for one finished build.
// Warnings is always empty when Status is StatusErrors.
type Report struct {
	Status   Status
	Errors   []string
	Warnings []string
}

// Classify formats a compilation result and applies the display policy:
// errors hide warnings, and a syntax error hides every other error since
// anything reported downstream of a parse failure is unreliable.
func Classify(result build.CompilationResult) Report {
	if result.HasErrors() {
		errs := formatAll(result.Errors)
		if syntax := filter(errs, IsLikelySyntaxError); len(syntax) > 0 {
			errs = syntax
		}
		return Report{Status: StatusErrors, Errors: errs}
	}
	if result.HasWarnings() {
		return Report{Status: StatusWarnings, Warnings: formatAll(result.Warnings)}
	}
	return Report{Status: StatusSuccess}
}

// Succeeded reports whether the build may be published. Warnings do not block.
func (r Report) Succeeded() bool { return r.Status != StatusErrors }

func formatAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, m := range raw {
		out[i] = Format(m)
	}
	return out
}

func filter(msgs []string, keep func(string) bool) []string {
	var out []string
	for _, m := range msgs {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
