package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"timepad/internal/timepad"
)

// MockFilesystem is an in-memory filesystem for testing.
// Paths are used as given; callers pass absolute, clean paths.
type MockFilesystem struct {
	files map[string][]byte
	dirs  map[string]bool

	// FailOn makes every operation on the named path return the error.
	FailOn map[string]error
}

// NewMockFilesystem creates a new empty mock filesystem.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		files:  make(map[string][]byte),
		dirs:   make(map[string]bool),
		FailOn: make(map[string]error),
	}
}

// AddFile adds a file, creating its parent directory.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.dirs[filepath.Dir(path)] = true
	m.files[path] = content
}

// AddDirectory adds a directory.
func (m *MockFilesystem) AddDirectory(path string) {
	m.dirs[path] = true
}

// Content returns the content of a file and whether it exists.
func (m *MockFilesystem) Content(path string) ([]byte, bool) {
	c, ok := m.files[path]
	return c, ok
}

// Names returns the sorted file names directly inside dir.
func (m *MockFilesystem) Names(dir string) []string {
	var names []string
	for p := range m.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names
}

func (m *MockFilesystem) fail(path string) error {
	if err, ok := m.FailOn[path]; ok {
		return err
	}
	return nil
}

func (m *MockFilesystem) ListFiles(dir string) ([]string, error) {
	if err := m.fail(dir); err != nil {
		return nil, err
	}
	if !m.dirs[dir] {
		return nil, fmt.Errorf("open %s: %w", dir, fs.ErrNotExist)
	}
	// Reverse order so tests do not depend on the store sorting for them.
	names := m.Names(dir)
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names, nil
}

func (m *MockFilesystem) Exists(path string) (bool, error) {
	if err := m.fail(path); err != nil {
		return false, err
	}
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

func (m *MockFilesystem) Open(path string) (io.ReadCloser, error) {
	if err := m.fail(path); err != nil {
		return nil, err
	}
	c, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(c)), nil
}

func (m *MockFilesystem) WriteNew(path string, data []byte) error {
	if err := m.fail(path); err != nil {
		return err
	}
	if _, ok := m.files[path]; ok {
		return fmt.Errorf("open %s: %w", path, fs.ErrExist)
	}
	if !m.dirs[filepath.Dir(path)] {
		return fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *MockFilesystem) Copy(src, dst string) error {
	if err := m.fail(src); err != nil {
		return err
	}
	c, ok := m.files[src]
	if !ok {
		return fmt.Errorf("open %s: %w", src, fs.ErrNotExist)
	}
	m.files[dst] = append([]byte(nil), c...)
	return nil
}

func (m *MockFilesystem) Rename(src, dst string) error {
	if err := m.fail(src); err != nil {
		return err
	}
	c, ok := m.files[src]
	if !ok {
		return fmt.Errorf("rename %s: %w", src, fs.ErrNotExist)
	}
	delete(m.files, src)
	m.files[dst] = c
	return nil
}

func (m *MockFilesystem) Remove(path string) error {
	if err := m.fail(path); err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("remove %s: %w", path, fs.ErrNotExist)
	}
	delete(m.files, path)
	return nil
}

func (m *MockFilesystem) EnsureDir(dir string) error {
	if err := m.fail(dir); err != nil {
		return err
	}
	for d := dir; ; d = filepath.Dir(d) {
		m.dirs[d] = true
		if d == filepath.Dir(d) || strings.TrimSpace(d) == "" {
			break
		}
	}
	return nil
}

// Compile-time check
var _ timepad.Filesystem = (*MockFilesystem)(nil)
