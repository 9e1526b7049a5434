package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"timepad/internal/timepad"
)

// OSFilesystem is the real filesystem implementation of timepad.Filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real disk.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// ListFiles returns the names of regular files directly inside dir, including
// symlinks that resolve to regular files. Dangling links, devices and
// subdirectories are left out.
func (f *OSFilesystem) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Type().IsRegular():
		case entry.Type()&os.ModeSymlink != 0:
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func (f *OSFilesystem) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// Open opens a file for reading.
func (f *OSFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// WriteNew creates path exclusively and writes data to it.
func (f *OSFilesystem) WriteNew(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// Copy copies src to dst through a temporary file in the destination
// directory, then renames it into place. Mode and modification time are kept.
func (f *OSFilesystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".timepad-copy-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", tmpPath, err)
	}
	return os.Rename(tmpPath, dst)
}

// Rename moves src to dst.
func (f *OSFilesystem) Rename(src, dst string) error {
	return os.Rename(src, dst)
}

// Remove deletes path.
func (f *OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

// EnsureDir creates dir and any missing parents.
func (f *OSFilesystem) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Compile-time check that OSFilesystem implements timepad.Filesystem
var _ timepad.Filesystem = (*OSFilesystem)(nil)
