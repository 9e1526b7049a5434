package timepad

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// FilenameTimeLayout is the timestamp form used in filenames (hyphens in the time).
	FilenameTimeLayout = "2006-01-02 15-04-05"
	// HeaderTimeLayout is the timestamp form used in headers and for display.
	HeaderTimeLayout = "2006-01-02 15:04:05"

	filenameTimeLen = len(FilenameTimeLayout)
)

var (
	filenamePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}-\d{2}-\d{2}$`)
	colonDigitsRe    = regexp.MustCompile(`\d+:(?:\d+:)*\d*`)
)

// WallClock returns t's date and time fields, truncated to the second, as a
// UTC value. Entry times are wall-clock readings and carry no zone, so a
// filename always decodes to the same fields it was encoded from, including
// local times that fall into a DST gap.
func WallClock(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, mo, d, h, mi, sec, 0, time.UTC)
}

// FormatFilename formats t as "YYYY-MM-DD HH-MM-SS".
// Fields are zero-padded so lexicographic order equals chronological order.
func FormatFilename(t time.Time) string {
	return t.Format(FilenameTimeLayout)
}

// FormatHeader formats t as "YYYY-MM-DD HH:MM:SS".
func FormatHeader(t time.Time) string {
	return t.Format(HeaderTimeLayout)
}

// ParseFilenamePrefix parses the fixed-width timestamp at the start of name and
// returns it along with the rest of the name, minus one leading space.
func ParseFilenamePrefix(name string) (time.Time, string, error) {
	if len(name) < filenameTimeLen {
		return time.Time{}, "", fmt.Errorf("%w: %q is too short", ErrMalformedEntryName, name)
	}
	prefix := name[:filenameTimeLen]
	if !filenamePrefixRe.MatchString(prefix) {
		return time.Time{}, "", fmt.Errorf("%w: %q has no timestamp prefix", ErrMalformedEntryName, name)
	}
	t, err := time.Parse(FilenameTimeLayout, prefix)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q: %v", ErrMalformedEntryName, name, err)
	}
	return t, strings.TrimPrefix(name[filenameTimeLen:], " "), nil
}

// ParseHeaderTime parses a user supplied "YYYY-MM-DD HH:MM:SS" wall-clock timestamp.
func ParseHeaderTime(text string) (time.Time, error) {
	t, err := time.Parse(HeaderTimeLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected %q, got %q", ErrInvalidTimeOverride, HeaderTimeLayout, text)
	}
	return t, nil
}

// NormalizeQueryTime rewrites colons to hyphens inside digit runs shaped like a
// time of day ("H:MM", "HH:MM:SS", or a prefix of one such as "11:") so that
// queries typed with colons match the hyphenated filenames. Everything else is
// unchanged.
func NormalizeQueryTime(text string) string {
	return colonDigitsRe.ReplaceAllStringFunc(text, func(m string) string {
		if !looksLikeTimeOfDay(m) {
			return m
		}
		return strings.ReplaceAll(m, ":", "-")
	})
}

func looksLikeTimeOfDay(s string) bool {
	// A trailing colon ("11:", "11:19:") means the next field is still being typed.
	trailing := strings.HasSuffix(s, ":")
	parts := strings.Split(strings.TrimSuffix(s, ":"), ":")
	if len(parts) > 3 || (trailing && len(parts) > 2) {
		return false
	}
	for _, p := range parts {
		if len(p) < 1 || len(p) > 2 {
			return false
		}
	}
	// Only the last field may be partial ("11:1"); the others must be complete.
	inner := parts[1:]
	if !trailing {
		inner = parts[1 : len(parts)-1]
	}
	for _, p := range inner {
		if len(p) != 2 {
			return false
		}
	}
	return true
}
