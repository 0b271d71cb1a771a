// Package fsutil holds filesystem predicates over an afero.Fs.
//
// The predicates never fail: a missing entry, a permission problem, an empty
// path or a nil filesystem all read as false. Symlinks are followed, so a link
// to a directory is a directory and a dangling link is neither a file nor a
// directory.
package fsutil

import (
	"io/fs"

	"github.com/spf13/afero"
)

var osFs = afero.NewOsFs()

// OS returns the filesystem backed by the operating system.
func OS() afero.Fs { return osFs }

// FileExistsAndIsFile reports whether path exists on fsys and is a regular file.
func FileExistsAndIsFile(fsys afero.Fs, path string) bool {
	info, ok := stat(fsys, path)
	return ok && info.Mode().IsRegular()
}

// FileExistsAndIsDirectory reports whether path exists on fsys and is a directory.
func FileExistsAndIsDirectory(fsys afero.Fs, path string) bool {
	info, ok := stat(fsys, path)
	return ok && info.IsDir()
}

func stat(fsys afero.Fs, path string) (fs.FileInfo, bool) {
	if fsys == nil || path == "" {
		return nil, false
	}
	info, err := fsys.Stat(path)
	if err != nil || info == nil {
		return nil, false
	}
	return info, true
}
