package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"

	"timepad/internal/config"
	"timepad/internal/editor"
	"timepad/internal/encryption"
	"timepad/internal/fs"
	"timepad/internal/timepad"
	"timepad/internal/ui"
)

// UI is the terminal collaborator: it presents results and collects answers.
type UI interface {
	Out() io.Writer
	Notice(format string, args ...any)
	Success(label, detail string)
	Banner(label, name string)
	EntriesTable(title string, entries []timepad.Entry)
	Select(candidates []timepad.Entry) (int, error)
	Confirm(question string, def bool) (bool, error)
	PromptFilename(def string) (string, error)
	PromptPassphrase(prompt string) (string, error)
}

var _ UI = (*ui.Terminal)(nil)

// Editor opens a file for interactive editing and blocks until done.
type Editor interface {
	Edit(path string) error
}

// Streams are the process's standard streams. Terminal, when set, is reused
// for prompts so that an interactive shell and the commands it runs share
// one buffered reader.
type Streams struct {
	In  *os.File
	Out *os.File
	Err *os.File

	Terminal *ui.Terminal
}

// TimepadApp is the application layer between the CLI and timepad.Service.
// It holds the resolved base directory for one invocation and turns each
// Command into calls to Service.ResolveOne / Service.ListSorted plus the
// needed prompts.
type TimepadApp struct {
	cfg      *config.Config
	dir      string
	username string
	service  *timepad.Service
	ui       UI
	editor   Editor
	logger   timepad.Logger
	logFile  io.Closer
}

// Deps are the collaborators of a TimepadApp.
type Deps struct {
	Config   *config.Config
	Dir      string
	Username string
	FS       timepad.Filesystem
	Clock    timepad.Clock
	UI       UI
	Editor   Editor
	Logger   timepad.Logger
}

// New creates a TimepadApp from explicit dependencies.
func New(d Deps) *TimepadApp {
	logger := d.Logger
	if logger == nil {
		logger = timepad.NewNopLogger()
	}
	return &TimepadApp{
		cfg:      d.Config,
		dir:      d.Dir,
		username: d.Username,
		service:  timepad.NewService(d.FS, d.Clock, logger),
		ui:       d.UI,
		editor:   d.Editor,
		logger:   logger,
	}
}

// NewTimepadApp wires a TimepadApp for the real process: it snapshots the
// environment, resolves the base directory and opens the log file.
// The caller must call Close when done.
func NewTimepadApp(cfg *config.Config, flags timepad.Flags, streams Streams, verbose bool) (*TimepadApp, error) {
	env, err := CaptureEnvironment()
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	logger, logFile, err := newLogger(cfg.LogDir, cfg.Log, opID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	dir := timepad.ResolveDir(flags, env)
	term := streams.Terminal
	if term == nil {
		term = ui.NewTerminal(streams.In, streams.Out, streams.Err, ui.ShouldColor(cfg.Display.Color, streams.Out))
	}
	launcher := editor.NewLauncher(editor.Command(cfg.Editor, env.Getenv), streams.In, streams.Out, streams.Err)

	a := New(Deps{
		Config:   cfg,
		Dir:      dir,
		Username: Username(cfg, env),
		FS:       fs.NewOSFilesystem(),
		Clock:    timepad.RealClock{},
		UI:       term,
		Editor:   launcher,
		Logger:   &slogAdapter{l: logger},
	})
	a.logFile = logFile
	a.logger.Debug("base directory resolved", "dir", dir)
	return a, nil
}

// CaptureEnvironment snapshots the process environment for directory resolution.
func CaptureEnvironment() (timepad.Environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return timepad.Environment{}, fmt.Errorf("getting current directory: %w", err)
	}
	home, err := homedir.Dir()
	if err != nil {
		return timepad.Environment{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return timepad.Environment{Vars: vars, Cwd: cwd, Home: home, DirExists: fs.DirExists}, nil
}

// Username picks the name written into entry headers.
func Username(cfg *config.Config, env timepad.Environment) string {
	for _, name := range []string{cfg.Username, env.Getenv("USER"), env.Getenv("USERNAME")} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return "unknown"
}

// Dir returns the resolved base directory.
func (a *TimepadApp) Dir() string { return a.dir }

// Run executes one command. NotFound and Cancelled outcomes are reported to
// the user and are not errors.
func (a *TimepadApp) Run(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	a.logger.Debug("running command", "command", cmd.Kind.String(), "dir", a.dir)

	switch cmd.Kind {
	case CommandNew:
		return a.runNew(cmd)
	case CommandList:
		return a.runList(cmd)
	case CommandLs:
		return a.runLs(cmd)
	case CommandDump:
		return a.runDump(cmd)
	case CommandExport:
		return a.runExport(cmd)
	case CommandRename:
		// Reject a bad override before anything is resolved or written.
		if strings.TrimSpace(cmd.At) != "" {
			if _, err := timepad.ParseHeaderTime(cmd.At); err != nil {
				return err
			}
		}
	}

	e, ok, err := a.resolveOne(cmd.Query)
	if err != nil || !ok {
		return err
	}

	switch cmd.Kind {
	case CommandCat:
		return a.service.WriteTo(a.ui.Out(), a.dir, e)
	case CommandEdit:
		a.ui.Banner("Editing:", e.Filename())
		return a.editor.Edit(a.service.Path(a.dir, e))
	case CommandRemove:
		return a.runRemove(e)
	case CommandMove:
		return a.runTransfer(e, "Renamed to:", "Move cancelled.", a.service.Move)
	case CommandCopy:
		return a.runTransfer(e, "Copied to:", "Copy cancelled.", a.service.Copy)
	case CommandRename:
		return a.runRename(e, cmd)
	case CommandBackup:
		return a.runBackup(e)
	default:
		return fmt.Errorf("unhandled command %v", cmd.Kind)
	}
}

// resolveOne narrows query to a single entry, asking the user to choose when
// several match. ok is false when nothing was found or the choice was cancelled.
func (a *TimepadApp) resolveOne(query string) (timepad.Entry, bool, error) {
	r, err := a.service.ResolveOne(a.dir, query)
	if err != nil {
		return timepad.Entry{}, false, err
	}
	if r.Outcome == timepad.NeedsSelection {
		choice, err := a.ui.Select(r.Candidates)
		if err != nil {
			return timepad.Entry{}, false, err
		}
		r = r.Select(choice)
	}

	err = r.Err()
	switch {
	case err == nil:
		return r.Entry, true, nil
	case errors.Is(err, timepad.ErrNotFound):
		a.ui.Notice("No matches found.")
	case errors.Is(err, timepad.ErrCancelled):
		a.ui.Notice("Selection cancelled.")
	default:
		return timepad.Entry{}, false, err
	}
	a.logger.Info("query not resolved", "query", query, "outcome", r.Outcome.String())
	return timepad.Entry{}, false, nil
}

func (a *TimepadApp) runNew(cmd Command) error {
	res, err := a.service.Create(a.dir, timepad.CreateRequest{
		Subject:  cmd.Subject,
		At:       cmd.At,
		Username: a.username,
	})
	if err != nil {
		return err
	}
	if res.Existed {
		a.ui.Notice("Note: File already exists and will be opened.")
	}
	a.ui.Banner("Editing:", res.Entry.Filename())
	return a.editor.Edit(res.Path)
}

func (a *TimepadApp) runList(cmd Command) error {
	entries, err := a.service.ListSorted(a.dir, cmd.Direction)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.ui.Notice("No entries found.")
		return nil
	}
	a.ui.EntriesTable("Entries in "+a.dir, entries)
	return nil
}

func (a *TimepadApp) runLs(cmd Command) error {
	entries, err := a.service.List(a.dir, timepad.Ascending, timepad.ListOptions{IncludeBackups: cmd.All})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(a.ui.Out(), e.Filename()); err != nil {
			return err
		}
	}
	return nil
}

func (a *TimepadApp) runDump(cmd Command) error {
	_, err := a.service.Dump(a.ui.Out(), a.dir, cmd.Direction)
	return err
}

func (a *TimepadApp) runRemove(e timepad.Entry) error {
	ok, err := a.ui.Confirm(fmt.Sprintf("Really delete file '%s'?", e.Filename()), false)
	if err != nil || !ok {
		return err
	}
	if err := a.service.Remove(a.dir, e); err != nil {
		return err
	}
	a.ui.Success("Deleted:", e.Filename())
	return nil
}

type transferFunc func(dir string, e timepad.Entry, newName string, overwrite bool) (string, error)

func (a *TimepadApp) runTransfer(e timepad.Entry, done, cancelled string, op transferFunc) error {
	name, err := a.ui.PromptFilename(e.Filename())
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		a.ui.Notice("Aborted: empty filename.")
		return nil
	}

	dst, err := op(a.dir, e, name, false)
	if errors.Is(err, timepad.ErrTargetExists) {
		ok, cerr := a.ui.Confirm("Target exists. Overwrite?", false)
		if cerr != nil {
			return cerr
		}
		if !ok {
			a.ui.Notice("%s", cancelled)
			return nil
		}
		dst, err = op(a.dir, e, name, true)
	}
	if err != nil {
		return err
	}
	a.ui.Success(done, filepath.Base(dst))
	return nil
}

func (a *TimepadApp) runRename(e timepad.Entry, cmd Command) error {
	req := timepad.RenameRequest{Subject: cmd.Subject, At: cmd.At}
	renamed, err := a.service.Rename(a.dir, e, req)
	if errors.Is(err, timepad.ErrTargetExists) {
		ok, cerr := a.ui.Confirm("Target exists. Overwrite?", false)
		if cerr != nil {
			return cerr
		}
		if !ok {
			a.ui.Notice("Rename cancelled.")
			return nil
		}
		req.Overwrite = true
		renamed, err = a.service.Rename(a.dir, e, req)
	}
	if err != nil {
		return err
	}
	a.ui.Success("Renamed to:", renamed.Filename())
	return nil
}

func (a *TimepadApp) runBackup(e timepad.Entry) error {
	bak, err := a.service.Backup(a.dir, e, false)
	if errors.Is(err, timepad.ErrTargetExists) {
		ok, cerr := a.ui.Confirm("Backup exists. Overwrite?", false)
		if cerr != nil {
			return cerr
		}
		if !ok {
			a.ui.Notice("Backup cancelled.")
			return nil
		}
		bak, err = a.service.Backup(a.dir, e, true)
	}
	if err != nil {
		return err
	}
	a.ui.Success("Backup created:", bak.Filename())
	return nil
}

// runExport writes an age-encrypted chronological dump. Recipients come from
// the command, then the configured recipients file, then a passphrase prompt.
func (a *TimepadApp) runExport(cmd Command) error {
	// Surface an unavailable directory before any ciphertext is written.
	if _, err := a.service.ListSorted(a.dir, timepad.Ascending); err != nil {
		return err
	}
	sealer, err := a.exportSealer(cmd)
	if err != nil {
		return err
	}

	if cmd.Output == "" || cmd.Output == "-" {
		n, err := a.exportTo(a.ui.Out(), sealer, cmd.Armor)
		if err != nil {
			return err
		}
		a.logger.Info("entries exported", "count", n, "output", "stdout")
		return nil
	}

	n, err := a.exportToFile(cmd.Output, sealer, cmd.Armor)
	if err != nil {
		return err
	}
	a.logger.Info("entries exported", "count", n, "output", cmd.Output)
	a.ui.Success("Exported:", fmt.Sprintf("%d entries to %s", n, cmd.Output))
	return nil
}

func (a *TimepadApp) exportTo(w io.Writer, sealer *encryption.AgeSealer, armored bool) (int, error) {
	sw, err := sealer.Seal(w, armored)
	if err != nil {
		return 0, err
	}
	n, err := a.service.Dump(sw, a.dir, timepad.Ascending)
	if err != nil {
		sw.Close()
		return n, err
	}
	if err := sw.Close(); err != nil {
		return n, fmt.Errorf("finalizing export: %w", err)
	}
	return n, nil
}

// exportToFile writes to a temporary sibling of path and renames it into
// place. A failed export leaves an existing file at path untouched.
func (a *TimepadApp) exportToFile(path string, sealer *encryption.AgeSealer, armored bool) (n int, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".timepad-export-*")
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	n, err = a.exportTo(tmp, sealer, armored)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing export file: %w", cerr)
	}
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("writing export file: %w", err)
	}
	return n, nil
}

func (a *TimepadApp) exportSealer(cmd Command) (*encryption.AgeSealer, error) {
	recipients := cmd.Recipients
	if len(recipients) == 0 && a.cfg != nil && a.cfg.Export.RecipientsFile != "" {
		lines, err := encryption.ReadRecipientsFile(a.cfg.Export.RecipientsFile)
		if err != nil {
			return nil, err
		}
		recipients = lines
	}
	if len(recipients) > 0 {
		return encryption.NewRecipientSealer(recipients)
	}

	pass, err := a.ui.PromptPassphrase("Export passphrase")
	if err != nil {
		return nil, err
	}
	again, err := a.ui.PromptPassphrase("Repeat passphrase")
	if err != nil {
		return nil, err
	}
	if pass != again {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return encryption.NewPassphraseSealer(pass)
}

// Close releases the log file.
func (a *TimepadApp) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
