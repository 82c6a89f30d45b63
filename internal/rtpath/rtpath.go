// Package rtpath wraps the runtime's filesystem-path primitives:
// existence/kind queries and size, backed by golang.org/x/sys/unix's
// Stat family for the raw inode metadata, with github.com/pkg/errors
// wrapping every OS-boundary failure the same way rtproc and rtnet do.
package rtpath

import (
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Info is the subset of inode metadata the path primitives expose:
// size, mode bits (file type and permissions), whether the entry is a
// directory, and modification time.
type Info struct {
	Size    int64
	Mode    uint32
	IsDir   bool
	ModTime int64 // seconds since epoch
}

// Stat reads file metadata via unix.Stat.
func Stat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Info{}, errors.Wrapf(err, "rtpath: stat %s", path)
	}
	return Info{
		Size:    st.Size,
		Mode:    uint32(st.Mode),
		IsDir:   st.Mode&unix.S_IFMT == unix.S_IFDIR,
		ModTime: st.Mtim.Sec,
	}, nil
}

// Exists reports whether path names an entry, following symlinks.
func Exists(path string) bool {
	_, err := Stat(path)
	return err == nil
}

// IsDir reports whether path names a directory.
func IsDir(path string) bool {
	info, err := Stat(path)
	return err == nil && info.IsDir
}

// IsFile reports whether path names a regular file.
func IsFile(path string) bool {
	info, err := Stat(path)
	return err == nil && info.Mode&unix.S_IFMT == unix.S_IFREG
}

// Size returns the byte size of the file at path.
func Size(path string) (int64, error) {
	info, err := Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Join joins path elements using the host's path separator.
func Join(parts ...string) string {
	return filepath.Join(parts...)
}

// Abs resolves path to an absolute form.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "rtpath: abs %s", path)
	}
	return abs, nil
}

// Base and Dir mirror filepath's, given a SN-facing home in this
// package so callers don't reach into path/filepath directly.
func Base(path string) string { return filepath.Base(path) }
func Dir(path string) string  { return filepath.Dir(path) }

// Ext returns the file extension, including the leading dot.
func Ext(path string) string { return filepath.Ext(path) }
