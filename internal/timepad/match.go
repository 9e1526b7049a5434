package timepad

import "strings"

// Match returns the entries whose filename contains query, in input order.
// The query is normalized with NormalizeQueryTime first. An empty query
// matches every entry.
func Match(entries []Entry, query string) []Entry {
	query = NormalizeQueryTime(query)
	matches := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Filename(), query) {
			matches = append(matches, e)
		}
	}
	return matches
}
