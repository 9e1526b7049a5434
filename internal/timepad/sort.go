package timepad

import (
	"slices"
	"strings"
)

// Direction selects chronological or reverse-chronological order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Sort returns a sorted copy of entries. The key is the filename timestamp,
// ties are broken by the full filename.
func Sort(entries []Entry, dir Direction) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		c := compareEntries(a, b)
		if dir == Descending {
			return -c
		}
		return c
	})
	return sorted
}

func compareEntries(a, b Entry) int {
	if c := strings.Compare(FormatFilename(a.Time), FormatFilename(b.Time)); c != 0 {
		return c
	}
	return strings.Compare(a.Filename(), b.Filename())
}
