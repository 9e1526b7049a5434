package timepad_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"timepad/internal/testutil"
	"timepad/internal/timepad"
)

// withLocal runs the test with time.Local set to the named zone.
func withLocal(t *testing.T, name string) {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("zone %s unavailable: %v", name, err)
	}
	saved := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = saved })
}

func TestDecodeFilename_DSTGap(t *testing.T) {
	withLocal(t, "America/New_York")

	// 02:30 on 2025-03-09 does not exist in New York local time.
	for _, name := range []string{
		"2025-03-09 02-30-00 gap.txt",
		"2025-11-02 01-30-00 overlap.txt",
	} {
		e, err := timepad.DecodeFilename(name)
		if err != nil {
			t.Fatalf("DecodeFilename(%q) error = %v", name, err)
		}
		if got := e.Filename(); got != name {
			t.Errorf("DecodeFilename(%q).Filename() = %q", name, got)
		}
	}

	ts, err := timepad.ParseHeaderTime("2025-03-09 02:30:00")
	if err != nil {
		t.Fatalf("ParseHeaderTime() error = %v", err)
	}
	if got := timepad.FormatHeader(ts); got != "2025-03-09 02:30:00" {
		t.Errorf("FormatHeader(ParseHeaderTime()) = %q", got)
	}
}

func TestService_DSTGapEntries(t *testing.T) {
	withLocal(t, "America/New_York")

	const (
		before = "2025-03-09 01-30-00 gap.txt"
		inGap  = "2025-03-09 02-30-00 gap.txt"
	)
	svc, fsys := setup(t, map[string]string{before: "one", inGap: "two"})

	r, err := svc.ResolveOne(base, "02:30:00")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if r.Outcome != timepad.Resolved || r.Entry.Filename() != inGap {
		t.Fatalf("ResolveOne(02:30:00) = %v %v, want %q", r.Outcome, names(r.Candidates), inGap)
	}

	r, err = svc.ResolveOne(base, "gap")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if got, want := names(r.Candidates), []string{before, inGap}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Candidates = %v, want %v", got, want)
	}

	chosen := r.Select(2)
	if err := svc.Remove(base, chosen.Entry); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := fsys.Names(base); !reflect.DeepEqual(got, []string{before}) {
		t.Errorf("remaining = %v, want %v", got, []string{before})
	}
	if _, ok := fsys.Content(filepath.Join(base, before)); !ok {
		t.Error("wrong entry deleted")
	}
}

func TestService_CreateUsesLocalWallClock(t *testing.T) {
	withLocal(t, "Asia/Tokyo")

	fsys := testutil.NewMockFilesystem()
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) // 19:30 in Tokyo
	svc := timepad.NewService(fsys, testutil.NewStubClock(now.In(time.Local)), timepad.NewNopLogger())

	res, err := svc.Create(base, timepad.CreateRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := res.Entry.Filename(); got != "2024-01-15 19-30-00.txt" {
		t.Errorf("Filename() = %q, want the Tokyo wall clock", got)
	}
	if content, _ := fsys.Content(res.Path); string(content) != "# 2024-01-15 19:30:00 alice\n\n" {
		t.Errorf("header = %q", content)
	}
}
