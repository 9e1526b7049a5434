package timepad_test

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"

	"timepad/internal/testutil"
	"timepad/internal/timepad"
)

const base = "/home/alice/.timepad"

func setup(t *testing.T, files map[string]string) (*timepad.Service, *testutil.MockFilesystem) {
	t.Helper()
	fsys := testutil.NewMockFilesystem()
	fsys.AddDirectory(base)
	for name, content := range files {
		fsys.AddFile(filepath.Join(base, name), []byte(content))
	}
	return timepad.NewService(fsys, testutil.FixedClock(), timepad.NewNopLogger()), fsys
}

func TestEntryStore_List(t *testing.T) {
	fsys := testutil.NewMockFilesystem()
	for _, name := range []string{
		"2024-01-01 09-00-00 a.txt",
		"2024-01-01 09-00-00 a.bak",
		"notes.txt",
		"README.md",
	} {
		fsys.AddFile(filepath.Join(base, name), nil)
	}
	store := timepad.NewEntryStore(fsys, timepad.NewNopLogger())

	t.Run("skips non-entries and backups", func(t *testing.T) {
		entries, err := store.List(base, timepad.ListOptions{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := names(entries); !reflect.DeepEqual(got, []string{"2024-01-01 09-00-00 a.txt"}) {
			t.Errorf("List() = %v", got)
		}
	})

	t.Run("includes backups on request", func(t *testing.T) {
		entries, err := store.List(base, timepad.ListOptions{IncludeBackups: true})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("List() = %v, want live and backup", names(entries))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := store.List("/nope", timepad.ListOptions{})
		if !errors.Is(err, timepad.ErrDirectoryUnavailable) {
			t.Errorf("List() error = %v, want ErrDirectoryUnavailable", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("List() error = %v, want cause preserved", err)
		}
	})

	t.Run("unreadable directory", func(t *testing.T) {
		fsys.FailOn[base] = fs.ErrPermission
		defer delete(fsys.FailOn, base)
		_, err := store.List(base, timepad.ListOptions{})
		if !errors.Is(err, timepad.ErrDirectoryUnavailable) || !errors.Is(err, fs.ErrPermission) {
			t.Errorf("List() error = %v", err)
		}
	})
}

func TestService_ListSorted(t *testing.T) {
	svc, _ := setup(t, map[string]string{
		"2024-01-03 09-00-00 c.txt": "",
		"2024-01-01 09-00-00 a.txt": "",
		"2024-01-02 09-00-00 b.txt": "",
		"2024-01-02 09-00-00 b.bak": "",
	})

	asc, err := svc.ListSorted(base, timepad.Ascending)
	if err != nil {
		t.Fatalf("ListSorted() error = %v", err)
	}
	want := []string{"2024-01-01 09-00-00 a.txt", "2024-01-02 09-00-00 b.txt", "2024-01-03 09-00-00 c.txt"}
	if got := names(asc); !reflect.DeepEqual(got, want) {
		t.Errorf("ascending = %v, want %v", got, want)
	}

	desc, err := svc.ListSorted(base, timepad.Descending)
	if err != nil {
		t.Fatalf("ListSorted() error = %v", err)
	}
	if got := names(desc); got[0] != want[2] || got[2] != want[0] {
		t.Errorf("descending = %v", got)
	}
}

func TestService_ResolveOne(t *testing.T) {
	svc, _ := setup(t, map[string]string{
		"2024-01-03 09-00-00 standup.txt": "",
		"2024-01-01 09-00-00 standup.txt": "",
		"2024-01-02 09-00-00 standup.txt": "",
		"2024-01-02 12-00-00 lunch.txt":   "",
		"2024-01-02 12-00-00 lunch.bak":   "",
	})

	t.Run("candidates are chronological", func(t *testing.T) {
		r, err := svc.ResolveOne(base, "standup")
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if r.Outcome != timepad.NeedsSelection {
			t.Fatalf("Outcome = %v, want NeedsSelection", r.Outcome)
		}
		want := []string{
			"2024-01-01 09-00-00 standup.txt",
			"2024-01-02 09-00-00 standup.txt",
			"2024-01-03 09-00-00 standup.txt",
		}
		if got := names(r.Candidates); !reflect.DeepEqual(got, want) {
			t.Errorf("Candidates = %v, want %v", got, want)
		}
		if got := r.Select(2); got.Entry.Filename() != want[1] {
			t.Errorf("Select(2) = %v", got.Entry)
		}
	})

	t.Run("backups are not candidates", func(t *testing.T) {
		r, err := svc.ResolveOne(base, "lunch")
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if r.Outcome != timepad.Resolved || r.Entry.Kind != timepad.KindLive {
			t.Errorf("ResolveOne() = %+v", r)
		}
	})

	t.Run("not found", func(t *testing.T) {
		r, err := svc.ResolveOne(base, "retro")
		if err != nil {
			t.Fatalf("ResolveOne() error = %v", err)
		}
		if r.Outcome != timepad.NotFound {
			t.Errorf("Outcome = %v, want NotFound", r.Outcome)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		if _, err := svc.ResolveOne(base, "  "); !errors.Is(err, timepad.ErrEmptyQuery) {
			t.Errorf("ResolveOne() error = %v, want ErrEmptyQuery", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := svc.ResolveOne("/nope", "x"); !errors.Is(err, timepad.ErrDirectoryUnavailable) {
			t.Errorf("ResolveOne() error = %v, want ErrDirectoryUnavailable", err)
		}
	})
}

func TestService_Create(t *testing.T) {
	t.Run("writes header", func(t *testing.T) {
		svc, fsys := setup(t, nil)
		res, err := svc.Create(base, timepad.CreateRequest{Subject: "plan", Username: "alice"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if res.Existed {
			t.Error("Existed = true for a new entry")
		}
		content, ok := fsys.Content(res.Path)
		if !ok || string(content) != "# 2024-01-15 10:30:00 alice\n\n" {
			t.Errorf("content = %q (exists %v)", content, ok)
		}
	})

	t.Run("same second and subject reopens without overwrite", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{"2024-01-15 10-30-00 plan.txt": "kept\n"})
		res, err := svc.Create(base, timepad.CreateRequest{Subject: "plan", Username: "alice"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !res.Existed {
			t.Error("Existed = false for a colliding entry")
		}
		if content, _ := fsys.Content(res.Path); string(content) != "kept\n" {
			t.Errorf("content overwritten: %q", content)
		}
		if got := fsys.Names(base); len(got) != 1 {
			t.Errorf("files = %v, want one", got)
		}
	})

	t.Run("invalid override touches nothing", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		svc := timepad.NewService(fsys, testutil.FixedClock(), timepad.NewNopLogger())
		_, err := svc.Create(base, timepad.CreateRequest{At: "2024-01-15"})
		if !errors.Is(err, timepad.ErrInvalidTimeOverride) {
			t.Fatalf("Create() error = %v, want ErrInvalidTimeOverride", err)
		}
		if ok, _ := fsys.Exists(base); ok {
			t.Error("base directory created for an invalid override")
		}
	})

	t.Run("invalid subject", func(t *testing.T) {
		svc, _ := setup(t, nil)
		if _, err := svc.Create(base, timepad.CreateRequest{Subject: "a/b"}); !errors.Is(err, timepad.ErrInvalidSubject) {
			t.Errorf("Create() error = %v, want ErrInvalidSubject", err)
		}
	})

	t.Run("write failure is wrapped", func(t *testing.T) {
		svc, fsys := setup(t, nil)
		fsys.FailOn[filepath.Join(base, "2024-01-15 10-30-00.txt")] = fs.ErrPermission
		if _, err := svc.Create(base, timepad.CreateRequest{}); !errors.Is(err, fs.ErrPermission) {
			t.Errorf("Create() error = %v, want ErrPermission", err)
		}
	})
}

func TestService_Dump(t *testing.T) {
	svc, _ := setup(t, map[string]string{
		"2024-01-01 09-00-00.txt": "one",
		"2024-01-02 09-00-00.txt": "two\n",
		"2024-01-03 09-00-00.txt": "",
		"2024-01-04 09-00-00.txt": "four",
	})

	var buf bytes.Buffer
	n, err := svc.Dump(&buf, base, timepad.Ascending)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if n != 4 {
		t.Errorf("Dump() = %d entries, want 4", n)
	}
	if got, want := buf.String(), "one\ntwo\n\nfour"; got != want {
		t.Errorf("Dump() output = %q, want %q", got, want)
	}
}

func TestService_FileOperations(t *testing.T) {
	const name = "2024-01-01 09-00-00 draft.txt"
	entry := mustDecode(t, name)[0]

	t.Run("remove", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		if err := svc.Remove(base, entry); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(fsys.Names(base)) != 0 {
			t.Errorf("files = %v", fsys.Names(base))
		}
		if err := svc.Remove(base, entry); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("second Remove() error = %v, want ErrNotExist", err)
		}
	})

	t.Run("move refuses existing target", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x", "other.txt": "y"})
		_, err := svc.Move(base, entry, "other.txt", false)
		if !errors.Is(err, timepad.ErrTargetExists) {
			t.Fatalf("Move() error = %v, want ErrTargetExists", err)
		}
		dst, err := svc.Move(base, entry, "other.txt", true)
		if err != nil {
			t.Fatalf("Move(overwrite) error = %v", err)
		}
		if content, _ := fsys.Content(dst); string(content) != "x" {
			t.Errorf("target content = %q", content)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{"other.txt"}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("move to same name is a no-op", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		if _, err := svc.Move(base, entry, name, false); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{name}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("invalid target names", func(t *testing.T) {
		svc, _ := setup(t, map[string]string{name: "x"})
		for _, bad := range []string{"", " ", ".", "..", "a/b", `a\b`, "nul\x00"} {
			if _, err := svc.Copy(base, entry, bad, true); !errors.Is(err, timepad.ErrInvalidFilename) {
				t.Errorf("Copy(%q) error = %v, want ErrInvalidFilename", bad, err)
			}
		}
	})

	t.Run("copy keeps source", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		if _, err := svc.Copy(base, entry, "copy.txt", false); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{name, "copy.txt"}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("backup", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		bak, err := svc.Backup(base, entry, false)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if bak.Kind != timepad.KindBackup || bak.Filename() != "2024-01-01 09-00-00 draft.bak" {
			t.Errorf("Backup() = %v", bak)
		}
		if _, err := svc.Backup(base, entry, false); !errors.Is(err, timepad.ErrTargetExists) {
			t.Errorf("second Backup() error = %v, want ErrTargetExists", err)
		}
		if _, err := svc.Backup(base, entry, true); err != nil {
			t.Errorf("Backup(overwrite) error = %v", err)
		}
		if len(fsys.Names(base)) != 2 {
			t.Errorf("files = %v", fsys.Names(base))
		}
	})

	t.Run("rename subject and time", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		renamed, err := svc.Rename(base, entry, timepad.RenameRequest{Subject: "final", At: "2023-05-06 07:08:09"})
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		want := "2023-05-06 07-08-09 final.txt"
		if renamed.Filename() != want {
			t.Errorf("Rename() = %q, want %q", renamed.Filename(), want)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{want}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("rename keeps backup kind", func(t *testing.T) {
		bak := entry.WithKind(timepad.KindBackup)
		svc, _ := setup(t, map[string]string{bak.Filename(): "x"})
		renamed, err := svc.Rename(base, bak, timepad.RenameRequest{Subject: "old"})
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if renamed.Filename() != "2024-01-01 09-00-00 old.bak" {
			t.Errorf("Rename() = %q", renamed.Filename())
		}
	})

	t.Run("rename to the same identity is a no-op", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		renamed, err := svc.Rename(base, entry, timepad.RenameRequest{Subject: " draft "})
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if !renamed.Same(entry) {
			t.Errorf("Rename() = %q, want %q", renamed.Filename(), name)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{name}) {
			t.Errorf("files = %v", got)
		}
	})

	t.Run("rename invalid override", func(t *testing.T) {
		svc, fsys := setup(t, map[string]string{name: "x"})
		if _, err := svc.Rename(base, entry, timepad.RenameRequest{At: "soon"}); !errors.Is(err, timepad.ErrInvalidTimeOverride) {
			t.Errorf("Rename() error = %v, want ErrInvalidTimeOverride", err)
		}
		if got := fsys.Names(base); !reflect.DeepEqual(got, []string{name}) {
			t.Errorf("files = %v", got)
		}
	})
}
