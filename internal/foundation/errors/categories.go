package errors

import "maps"

// ErrorCategory is the broad classification of an error.
type ErrorCategory string

const (
	// Input and configuration problems the user has to fix.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// External collaborators.
	CategoryBundler ErrorCategory = "bundler"
	CategoryNotify  ErrorCategory = "notify"

	// Publish pipeline and local state.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryFinalize   ErrorCategory = "finalize"
	CategoryJournal    ErrorCategory = "journal"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how much of the program an error takes down.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // process must stop
	SeverityError   ErrorSeverity = "error"   // current operation failed
	SeverityWarning ErrorSeverity = "warning" // degraded, continuing
)

// ErrorContext is structured key/value context attached to an error.
type ErrorContext map[string]any

// Set adds or replaces a value, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// GetString returns a string value stored under key.
func (c ErrorContext) GetString(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Merge returns a new context holding both sets of values; other wins on conflict.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
