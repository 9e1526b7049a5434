package timepad

import (
	"fmt"
	"strings"
	"time"
)

// EncodeFilename returns "<YYYY-MM-DD HH-MM-SS>[ <subject>]<ext>".
// The subject segment and its separating space are omitted when subject is empty.
func EncodeFilename(t time.Time, subject string, kind Kind) string {
	var b strings.Builder
	b.WriteString(FormatFilename(t))
	if subject != "" {
		b.WriteByte(' ')
		b.WriteString(subject)
	}
	b.WriteString(kind.Ext())
	return b.String()
}

// DecodeFilename parses a filename produced by EncodeFilename.
func DecodeFilename(name string) (Entry, error) {
	var kind Kind
	var stem string
	switch {
	case strings.HasSuffix(name, LiveExt):
		kind, stem = KindLive, strings.TrimSuffix(name, LiveExt)
	case strings.HasSuffix(name, BackupExt):
		kind, stem = KindBackup, strings.TrimSuffix(name, BackupExt)
	default:
		return Entry{}, fmt.Errorf("%w: %q has an unrecognized extension", ErrMalformedEntryName, name)
	}

	t, subject, err := ParseFilenamePrefix(stem)
	if err != nil {
		return Entry{}, err
	}
	// The prefix must be followed by the end of the stem or a separating space.
	if len(stem) > filenameTimeLen && stem[filenameTimeLen] != ' ' {
		return Entry{}, fmt.Errorf("%w: %q has no space after the timestamp", ErrMalformedEntryName, name)
	}
	return Entry{Time: t, Subject: subject, Kind: kind}, nil
}
