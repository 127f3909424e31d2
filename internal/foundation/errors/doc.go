// Package errors provides the classified error type used across sitewatch.
//
// Errors carry a category (config, bundler, finalize, ...), a severity and a
// free-form context map, and are built with a small fluent builder:
//
//	err := errors.WrapError(ioErr, errors.CategoryFinalize, "mirror build output").
//		WithContext("stage", "mirror").
//		WithContext("dst", staticDir).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
