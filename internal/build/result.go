package build

import "slices"

// CompilationResult is the diagnostics snapshot of one build cycle.
// Messages are raw multi-line bundler text in the order the bundler produced them.
type CompilationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewCompilationResult copies its inputs so later mutation by the caller cannot leak in.
func NewCompilationResult(errs, warnings []string) CompilationResult {
	return CompilationResult{Errors: slices.Clone(errs), Warnings: slices.Clone(warnings)}
}

func (r CompilationResult) HasErrors() bool   { return len(r.Errors) > 0 }
func (r CompilationResult) HasWarnings() bool { return len(r.Warnings) > 0 }
