package timepad

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Service is the core used by every command: it resolves a query to one
// entry and lists entries in order. The file operations in operations.go are
// expressed over these two calls.
type Service struct {
	fs     Filesystem
	store  *EntryStore
	clock  Clock
	logger Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(fs Filesystem, clock Clock, logger Logger) *Service {
	return &Service{
		fs:     fs,
		store:  NewEntryStore(fs, logger),
		clock:  clock,
		logger: logger,
	}
}

// ListSorted returns the live entries of dir in the given direction.
func (s *Service) ListSorted(dir string, d Direction) ([]Entry, error) {
	return s.List(dir, d, ListOptions{})
}

// List returns entries of dir filtered by opts, sorted in the given direction.
func (s *Service) List(dir string, d Direction, opts ListOptions) ([]Entry, error) {
	entries, err := s.store.List(dir, opts)
	if err != nil {
		return nil, err
	}
	return Sort(entries, d), nil
}

// ResolveOne matches query against the live entries of dir, sorted
// chronologically, and classifies the result. A NeedsSelection resolution is
// returned to the caller, which collects the user's choice and calls Select.
func (s *Service) ResolveOne(dir, query string) (Resolution, error) {
	if strings.TrimSpace(query) == "" {
		return Resolution{}, ErrEmptyQuery
	}
	entries, err := s.ListSorted(dir, Ascending)
	if err != nil {
		return Resolution{}, err
	}
	matches := Match(entries, query)
	r := Resolve(matches)
	s.logger.Debug("query resolved", "query", query, "matches", len(matches), "outcome", r.Outcome.String())
	return r, nil
}

// Path returns the absolute path of e inside dir.
func (s *Service) Path(dir string, e Entry) string {
	return filepath.Join(dir, e.Filename())
}

// targetPath validates a user supplied filename and joins it to dir.
func targetPath(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return filepath.Join(dir, name), nil
}
