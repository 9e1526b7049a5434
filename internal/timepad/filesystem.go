package timepad

import "io"

// Filesystem abstracts the raw file primitives used by the store and the
// file operations so that they can be tested without touching the disk.
type Filesystem interface {
	// ListFiles returns the names of regular files directly inside dir.
	ListFiles(dir string) ([]string, error)

	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// WriteNew creates path with data. It fails with fs.ErrExist if path exists.
	WriteNew(path string, data []byte) error

	// Copy copies src to dst, replacing dst if present.
	Copy(src, dst string) error

	// Rename moves src to dst, replacing dst if present.
	Rename(src, dst string) error

	// Remove deletes path.
	Remove(path string) error

	// EnsureDir creates dir and its parents if missing.
	EnsureDir(dir string) error
}
