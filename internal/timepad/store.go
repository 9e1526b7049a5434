package timepad

import (
	"errors"
	"fmt"
)

// ListOptions controls which entries EntryStore.List returns.
type ListOptions struct {
	IncludeBackups bool
}

// EntryStore lists the entries of a base directory.
type EntryStore struct {
	fs     Filesystem
	logger Logger
}

// NewEntryStore creates an EntryStore over the given filesystem.
func NewEntryStore(fs Filesystem, logger Logger) *EntryStore {
	return &EntryStore{fs: fs, logger: logger}
}

// List decodes the files directly inside dir. Files that are not entries are
// skipped; only an unreadable directory is an error. Order follows the
// filesystem and callers sort the result.
func (s *EntryStore) List(dir string, opts ListOptions) ([]Entry, error) {
	names, err := s.fs.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryUnavailable, dir, err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		e, err := DecodeFilename(name)
		if err != nil {
			if errors.Is(err, ErrMalformedEntryName) {
				s.logger.Debug("skipping non-entry file", "name", name)
				continue
			}
			return nil, err
		}
		if e.Kind == KindBackup && !opts.IncludeBackups {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
