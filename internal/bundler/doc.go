// Package bundler runs a command-line bundler in watch mode.
//
// Source directories are watched with fsnotify. After a burst of changes
// settles, the configured command runs once and its stats output becomes a
// build.CompilationResult. Each cycle is reported to the handler as an
// Invalidated event followed by Done or Failed. The handler runs on the
// watch goroutine, so a new cycle never starts while the previous one is
// still being handled.
package bundler
