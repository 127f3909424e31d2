// Package build holds the data exchanged between the bundler driver and the
// watch controller: one Event per bundler lifecycle step and the immutable
// CompilationResult of a finished cycle.
package build
