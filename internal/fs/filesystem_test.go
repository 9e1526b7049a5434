package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestOSFilesystem_ListFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "2024-01-15 10-30-00 a.txt"), "a")
	mustWrite(t, filepath.Join(dir, "notes.txt"), "n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	names, err := NewOSFilesystem().ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	sort.Strings(names)
	want := []string{"2024-01-15 10-30-00 a.txt", "notes.txt"}
	if len(names) != len(want) {
		t.Fatalf("ListFiles() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestOSFilesystem_ListFiles_symlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	target := filepath.Join(elsewhere, "shared.txt")
	mustWrite(t, target, "shared")

	links := map[string]string{
		"2024-01-15 10-30-00 linked.txt":   target,
		"2024-01-15 11-00-00 dangling.txt": filepath.Join(elsewhere, "gone.txt"),
		"2024-01-15 12-00-00 dir.txt":      elsewhere,
	}
	for name, to := range links {
		if err := os.Symlink(to, filepath.Join(dir, name)); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
	}

	names, err := NewOSFilesystem().ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(names) != 1 || names[0] != "2024-01-15 10-30-00 linked.txt" {
		t.Errorf("ListFiles() = %v, want only the link to a regular file", names)
	}
}

func TestOSFilesystem_ListFiles_missingDir(t *testing.T) {
	_, err := NewOSFilesystem().ListFiles(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ListFiles() error = %v, want ErrNotExist", err)
	}
}

func TestOSFilesystem_WriteNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.txt")
	f := NewOSFilesystem()

	if err := f.WriteNew(path, []byte("first")); err != nil {
		t.Fatalf("WriteNew() error = %v", err)
	}
	err := f.WriteNew(path, []byte("second"))
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second WriteNew() error = %v, want ErrExist", err)
	}
	if got := mustRead(t, path); got != "first" {
		t.Errorf("content = %q, want %q", got, "first")
	}
}

func TestOSFilesystem_Copy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.bak")
	mustWrite(t, src, "hello")
	mtime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, dst, "old")

	if err := NewOSFilesystem().Copy(src, dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got := mustRead(t, dst); got != "hello" {
		t.Errorf("dst content = %q, want %q", got, "hello")
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("dst mtime = %v, want %v", info.ModTime(), mtime)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("directory has %d files, want 2 (temp file left behind?)", len(entries))
	}
}

func TestOSFilesystem_Exists(t *testing.T) {
	dir := t.TempDir()
	f := NewOSFilesystem()

	ok, err := f.Exists(filepath.Join(dir, "nope"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
	ok, err = f.Exists(dir)
	if err != nil || !ok {
		t.Errorf("Exists(dir) = %v, %v; want true, nil", ok, err)
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	mustWrite(t, file, "")

	if !DirExists(dir) {
		t.Error("DirExists(dir) = false, want true")
	}
	if DirExists(file) {
		t.Error("DirExists(file) = true, want false")
	}
	if DirExists(filepath.Join(dir, "missing")) {
		t.Error("DirExists(missing) = true, want false")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
