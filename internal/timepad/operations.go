package timepad

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// CreateRequest describes a new entry.
type CreateRequest struct {
	Subject  string
	At       string // optional "YYYY-MM-DD HH:MM:SS" override
	Username string
}

// CreateResult reports the entry that Create produced or found.
type CreateResult struct {
	Entry   Entry
	Path    string
	Existed bool
}

// Create writes a new entry file with its header. The time override is
// validated before anything touches the disk. If an entry with the same
// filename already exists it is left untouched and Existed is set; the
// caller opens it as-is.
func (s *Service) Create(dir string, req CreateRequest) (*CreateResult, error) {
	ts := s.clock.Now()
	if strings.TrimSpace(req.At) != "" {
		var err error
		if ts, err = ParseHeaderTime(req.At); err != nil {
			return nil, err
		}
	}
	e, err := NewEntry(ts, req.Subject)
	if err != nil {
		return nil, err
	}

	if err := s.fs.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating base directory: %w", err)
	}

	path := s.Path(dir, e)
	err = s.fs.WriteNew(path, []byte(e.Header(req.Username)))
	switch {
	case errors.Is(err, fs.ErrExist):
		s.logger.Warn("entry already exists, reopening", "path", path)
		return &CreateResult{Entry: e, Path: path, Existed: true}, nil
	case err != nil:
		return nil, fmt.Errorf("writing entry: %w", err)
	}

	s.logger.Info("entry created", "path", path)
	return &CreateResult{Entry: e, Path: path}, nil
}

// WriteTo copies the content of e to w.
func (s *Service) WriteTo(w io.Writer, dir string, e Entry) error {
	_, err := s.copyContent(w, s.Path(dir, e))
	return err
}

// Dump writes every live entry of dir to w in the given order. A newline is
// inserted between entries when the previous one does not end with one.
// Returns the number of entries written.
func (s *Service) Dump(w io.Writer, dir string, d Direction) (int, error) {
	entries, err := s.ListSorted(dir, d)
	if err != nil {
		return 0, err
	}
	needsNewline := false
	for i, e := range entries {
		if needsNewline {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return i, err
			}
		}
		last, err := s.copyContent(w, s.Path(dir, e))
		if err != nil {
			return i, err
		}
		needsNewline = last != '\n'
	}
	return len(entries), nil
}

// copyContent streams a file to w and returns its final byte, or 0 when empty.
func (s *Service) copyContent(w io.Writer, path string) (byte, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening entry: %w", err)
	}
	defer f.Close()

	tw := &tailWriter{w: w}
	if _, err := io.Copy(tw, f); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return tw.last, nil
}

type tailWriter struct {
	w    io.Writer
	last byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		t.last = p[len(p)-1]
	}
	return t.w.Write(p)
}

// Remove deletes the file backing e.
func (s *Service) Remove(dir string, e Entry) error {
	path := s.Path(dir, e)
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	s.logger.Info("entry deleted", "path", path)
	return nil
}

// Move renames the file backing e to newName inside dir. The new name does not
// have to be an entry filename. An existing target is replaced only when
// overwrite is set, otherwise ErrTargetExists is returned.
func (s *Service) Move(dir string, e Entry, newName string, overwrite bool) (string, error) {
	return s.transfer(dir, e, newName, overwrite, "moved", s.fs.Rename)
}

// Copy duplicates the file backing e as newName inside dir.
func (s *Service) Copy(dir string, e Entry, newName string, overwrite bool) (string, error) {
	return s.transfer(dir, e, newName, overwrite, "copied", s.fs.Copy)
}

func (s *Service) transfer(dir string, e Entry, newName string, overwrite bool, verb string, op func(src, dst string) error) (string, error) {
	dst, err := targetPath(dir, newName)
	if err != nil {
		return "", err
	}
	src := s.Path(dir, e)
	if dst == src {
		return dst, nil
	}
	if err := s.checkTarget(dst, overwrite); err != nil {
		return "", err
	}
	if err := op(src, dst); err != nil {
		return "", fmt.Errorf("entry not %s: %w", verb, err)
	}
	s.logger.Info("entry "+verb, "from", src, "to", dst)
	return dst, nil
}

// Backup copies e to a sibling file with the .bak extension.
func (s *Service) Backup(dir string, e Entry, overwrite bool) (Entry, error) {
	bak := e.WithKind(KindBackup)
	dst := s.Path(dir, bak)
	if err := s.checkTarget(dst, overwrite); err != nil {
		return Entry{}, err
	}
	if err := s.fs.Copy(s.Path(dir, e), dst); err != nil {
		return Entry{}, fmt.Errorf("creating backup: %w", err)
	}
	s.logger.Info("backup created", "path", dst)
	return bak, nil
}

// RenameRequest replaces the subject of an entry and optionally its timestamp.
type RenameRequest struct {
	Subject   string
	At        string
	Overwrite bool
}

// Rename gives e a new subject, keeping its timestamp unless At overrides it.
// The header inside the file is not rewritten.
func (s *Service) Rename(dir string, e Entry, req RenameRequest) (Entry, error) {
	ts := e.Time
	if strings.TrimSpace(req.At) != "" {
		var err error
		if ts, err = ParseHeaderTime(req.At); err != nil {
			return Entry{}, err
		}
	}
	renamed, err := NewEntry(ts, req.Subject)
	if err != nil {
		return Entry{}, err
	}
	renamed.Kind = e.Kind
	if renamed.Same(e) {
		return renamed, nil
	}
	if _, err := s.Move(dir, e, renamed.Filename(), req.Overwrite); err != nil {
		return Entry{}, err
	}
	return renamed, nil
}

func (s *Service) checkTarget(path string, overwrite bool) error {
	exists, err := s.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("checking target: %w", err)
	}
	if exists && !overwrite {
		return fmt.Errorf("%w: %s", ErrTargetExists, path)
	}
	return nil
}
