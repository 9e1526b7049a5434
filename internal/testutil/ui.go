package testutil

import (
	"bytes"
	"fmt"
	"io"

	"timepad/internal/timepad"
)

// ScriptedUI answers prompts from queued values and records what was shown.
// An exhausted queue answers with the prompt's default (Cancel for Select).
type ScriptedUI struct {
	Stdout bytes.Buffer

	Selections  []int
	Confirms    []bool
	Filenames   []string
	Passphrases []string

	Notices    []string
	Successes  []string
	Banners    []string
	Tables     [][]timepad.Entry
	Candidates [][]timepad.Entry
	Questions  []string
}

// NewScriptedUI creates a ScriptedUI with empty queues.
func NewScriptedUI() *ScriptedUI {
	return &ScriptedUI{}
}

func (u *ScriptedUI) Out() io.Writer { return &u.Stdout }

func (u *ScriptedUI) Notice(format string, args ...any) {
	u.Notices = append(u.Notices, fmt.Sprintf(format, args...))
}

func (u *ScriptedUI) Success(label, detail string) {
	u.Successes = append(u.Successes, label+" "+detail)
}

func (u *ScriptedUI) Banner(label, name string) {
	u.Banners = append(u.Banners, label+" "+name)
}

func (u *ScriptedUI) EntriesTable(_ string, entries []timepad.Entry) {
	u.Tables = append(u.Tables, entries)
}

func (u *ScriptedUI) Select(candidates []timepad.Entry) (int, error) {
	u.Candidates = append(u.Candidates, candidates)
	if len(u.Selections) == 0 {
		return timepad.Cancel, nil
	}
	choice := u.Selections[0]
	u.Selections = u.Selections[1:]
	return choice, nil
}

func (u *ScriptedUI) Confirm(question string, def bool) (bool, error) {
	u.Questions = append(u.Questions, question)
	if len(u.Confirms) == 0 {
		return def, nil
	}
	ok := u.Confirms[0]
	u.Confirms = u.Confirms[1:]
	return ok, nil
}

func (u *ScriptedUI) PromptFilename(def string) (string, error) {
	if len(u.Filenames) == 0 {
		return def, nil
	}
	name := u.Filenames[0]
	u.Filenames = u.Filenames[1:]
	return name, nil
}

func (u *ScriptedUI) PromptPassphrase(string) (string, error) {
	if len(u.Passphrases) == 0 {
		return "", io.EOF
	}
	p := u.Passphrases[0]
	u.Passphrases = u.Passphrases[1:]
	return p, nil
}

// StubEditor records the paths it was asked to open and returns Err.
type StubEditor struct {
	Opened []string
	Err    error
}

func (e *StubEditor) Edit(path string) error {
	e.Opened = append(e.Opened, path)
	return e.Err
}
