package timepad

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes live entries from their backups.
type Kind int

const (
	KindLive Kind = iota
	KindBackup
)

const (
	LiveExt   = ".txt"
	BackupExt = ".bak"
)

// Ext returns the filename extension for the kind.
func (k Kind) Ext() string {
	if k == KindBackup {
		return BackupExt
	}
	return LiveExt
}

func (k Kind) String() string {
	if k == KindBackup {
		return "backup"
	}
	return "live"
}

// Entry is a single timestamped note identified by its encoded filename.
// Time is a wall-clock value in UTC; see WallClock.
type Entry struct {
	Time    time.Time
	Subject string
	Kind    Kind
}

// NewEntry builds a live Entry at the wall-clock reading of t, trimming the
// subject and rejecting characters that cannot appear in a filename.
func NewEntry(t time.Time, subject string) (Entry, error) {
	subject = strings.TrimSpace(subject)
	if strings.ContainsAny(subject, "/\\\x00") {
		return Entry{}, fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidSubject, subject)
	}
	return Entry{Time: WallClock(t), Subject: subject, Kind: KindLive}, nil
}

// Filename returns the on-disk name of the entry.
func (e Entry) Filename() string {
	return EncodeFilename(e.Time, e.Subject, e.Kind)
}

// Header returns the first line written to a new entry file.
func (e Entry) Header(username string) string {
	return fmt.Sprintf("# %s %s\n\n", FormatHeader(e.Time), username)
}

// WithKind returns a copy of e with a different kind.
func (e Entry) WithKind(k Kind) Entry {
	e.Kind = k
	return e
}

// Same reports whether two entries share an identity (byte-identical filenames).
func (e Entry) Same(other Entry) bool {
	return e.Filename() == other.Filename()
}

func (e Entry) String() string {
	return e.Filename()
}
