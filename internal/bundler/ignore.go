package bundler

import (
	"path/filepath"
	"strings"
)

// shouldIgnoreEvent reports whether a change to path should not trigger a rebuild.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor swap and backup files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "node_modules"
}

// ignoreSet matches paths under any of a set of absolute directories.
type ignoreSet []string

func newIgnoreSet(paths []string) ignoreSet {
	set := make(ignoreSet, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			set = append(set, filepath.Clean(abs))
		}
	}
	return set
}

func (s ignoreSet) match(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range s {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
