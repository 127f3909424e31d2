package build

import "errors"

// Sentinel errors carried by Failed events. Wrap them with context at the call site.
var (
	ErrBundlerStart = errors.New("sitewatch: bundler could not be started")
	ErrBundlerCrash = errors.New("sitewatch: bundler terminated abnormally")
)
