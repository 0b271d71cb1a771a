// Package pathutil normalizes user supplied path strings.
//
// The functions are total: they never fail and never require the target to
// exist. The only environment they consult is the working directory and the
// user's home directory; when either is unavailable the lexical result is
// returned instead.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Hooks for tests.
var (
	getwd       = os.Getwd
	userHomeDir = os.UserHomeDir
)

// StandardizeCurrentDir replaces a leading "." path element with the absolute
// working directory. "." and "./x" are rewritten; ".x", "..", "x" and absolute
// paths are returned unchanged.
func StandardizeCurrentDir(input string) string {
	if !hasCurrentDirPrefix(input) {
		return input
	}
	wd, err := getwd()
	if err != nil {
		return input
	}
	return wd + input[1:]
}

// StandardizeCurrentDirAndPath is StandardizeCurrentDir followed by lexical
// cleaning of ".", ".." and repeated separators, home directory expansion and
// resolution against the working directory. Applying it twice yields the same
// result as applying it once, also when the working directory is unavailable.
func StandardizeCurrentDirAndPath(input string) string {
	// clean first so a "~" surfaced by cleaning is expanded in this pass
	p := expandHome(filepath.Clean(StandardizeCurrentDir(input)))
	if !filepath.IsAbs(p) {
		if wd, err := getwd(); err == nil {
			p = filepath.Join(wd, p)
		}
	}
	return filepath.Clean(p)
}

func hasCurrentDirPrefix(p string) bool {
	if p == "." {
		return true
	}
	if len(p) < 2 || p[0] != '.' {
		return false
	}
	return p[1] == '/' || p[1] == filepath.Separator
}

// StandardizeRelativeTo is StandardizeCurrentDirAndPath with relative input,
// including a leading "." element, resolved against base instead of the
// working directory. Absolute and "~" paths ignore base, and an empty base is
// the working directory.
func StandardizeRelativeTo(base, input string) string {
	if base == "" || filepath.IsAbs(input) || isHomeRelative(input) {
		return StandardizeCurrentDirAndPath(input)
	}
	return StandardizeCurrentDirAndPath(filepath.Join(StandardizeCurrentDirAndPath(base), input))
}

func isHomeRelative(p string) bool {
	return p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator))
}

func expandHome(p string) string {
	if !isHomeRelative(p) {
		return p
	}
	home, err := userHomeDir()
	if err != nil || home == "" {
		return p
	}
	return home + p[1:]
}
