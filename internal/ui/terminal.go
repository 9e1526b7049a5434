// Package ui renders entries and asks the user questions on a terminal.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"golang.org/x/term"

	"timepad/internal/config"
	"timepad/internal/timepad"
)

// Terminal is the interactive front end used by the CLI.
type Terminal struct {
	in       *bufio.Reader
	inFile   *os.File // set when input is a real file, for passphrase reads
	out      io.Writer
	errOut   io.Writer
	useColor bool
}

// NewTerminal creates a Terminal reading answers from in.
func NewTerminal(in io.Reader, out, errOut io.Writer, useColor bool) *Terminal {
	t := &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		errOut:   errOut,
		useColor: useColor,
	}
	if f, ok := in.(*os.File); ok {
		t.inFile = f
	}
	return t
}

// ShouldColor decides whether to emit ANSI colors for the configured mode.
// In auto mode colors are used only when out is a terminal and NO_COLOR is unset.
func ShouldColor(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return !color.NoColor && out != nil && term.IsTerminal(int(out.Fd()))
	}
}

func (t *Terminal) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Out returns the writer for regular output.
func (t *Terminal) Out() io.Writer { return t.out }

// Notice prints a non-fatal message such as "No matches found.".
func (t *Terminal) Notice(format string, args ...any) {
	_, _ = t.paint(color.FgYellow).Fprintf(t.out, format+"\n", args...)
}

// Success prints a confirmation of a completed change.
func (t *Terminal) Success(label, detail string) {
	_, _ = t.paint(color.FgGreen).Fprint(t.out, label)
	_, _ = fmt.Fprintf(t.out, " %s\n", detail)
}

// Error prints an error to the error stream.
func (t *Terminal) Error(err error) {
	_, _ = t.paint(color.FgRed).Fprintf(t.errOut, "Error: %v\n", err)
}

// Banner prints a highlighted one-line heading, e.g. the file being edited.
func (t *Terminal) Banner(label, name string) {
	_, _ = t.paint(color.FgCyan).Fprint(t.out, label+" ")
	_, _ = t.paint(color.FgCyan, color.Bold).Fprintln(t.out, name)
}

// EntriesTable prints entries as a Date/Time and Subject table.
func (t *Terminal) EntriesTable(title string, entries []timepad.Entry) {
	bold := t.paint(color.Bold)
	green := t.paint(color.FgGreen)
	magenta := t.paint(color.FgMagenta)

	_, _ = t.paint(color.Bold, color.Underline).Fprintln(t.out, title)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date/Time"), bold.Sprint("Subject"))
	for _, e := range entries {
		tbl.AddRow(green.Sprint(timepad.FormatHeader(e.Time)), magenta.Sprint(e.Subject))
	}
	_, _ = fmt.Fprintln(t.out, tbl)
}

// Select shows the numbered candidates and reads a choice. An empty answer
// picks 1; "q" or end of input cancels. Non-numeric answers are asked again.
// A number out of range is returned as-is for the caller to reject.
func (t *Terminal) Select(candidates []timepad.Entry) (int, error) {
	bold := t.paint(color.Bold)
	cyan := t.paint(color.FgCyan)

	_, _ = t.paint(color.Bold, color.Underline).Fprintln(t.out, "Multiple matches - select one")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Date/Time"), bold.Sprint("Subject"))
	for i, e := range candidates {
		tbl.AddRow(cyan.Sprint(i+1), t.paint(color.FgGreen).Sprint(timepad.FormatHeader(e.Time)), t.paint(color.FgMagenta).Sprint(e.Subject))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(t.out, tbl)

	for {
		answer, err := t.ask("Number", "1")
		if errors.Is(err, io.EOF) {
			return timepad.Cancel, nil
		}
		if err != nil {
			return timepad.Cancel, err
		}
		if strings.EqualFold(answer, "q") {
			return timepad.Cancel, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			_, _ = t.paint(color.FgRed).Fprintln(t.out, "Please enter a number.")
			continue
		}
		return n, nil
	}
}

// Confirm asks a yes/no question. End of input answers with def.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		_, _ = fmt.Fprintf(t.out, "%s [%s]: ", question, hint)
		line, err := t.readLine()
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(t.out)
			return def, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// PromptFilename asks for a filename defaulting to def. End of input returns "".
func (t *Terminal) PromptFilename(def string) (string, error) {
	answer, err := t.ask("New filename", def)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return answer, err
}

// PromptPassphrase reads a passphrase without echo when input is a terminal.
func (t *Terminal) PromptPassphrase(prompt string) (string, error) {
	_, _ = fmt.Fprintf(t.errOut, "%s: ", prompt)
	if t.inFile != nil && term.IsTerminal(int(t.inFile.Fd())) {
		b, err := term.ReadPassword(int(t.inFile.Fd()))
		_, _ = fmt.Fprintln(t.errOut)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}
	line, err := t.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return line, nil
}

// ReadCommand prints prompt and returns the next input line. It returns
// io.EOF when input is exhausted.
func (t *Terminal) ReadCommand(prompt string) (string, error) {
	_, _ = fmt.Fprint(t.out, prompt)
	line, err := t.readLine()
	if errors.Is(err, io.EOF) {
		_, _ = fmt.Fprintln(t.out)
	}
	return line, err
}

func (t *Terminal) ask(prompt, def string) (string, error) {
	_, _ = fmt.Fprintf(t.out, "%s (%s): ", prompt, def)
	line, err := t.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(t.out)
		}
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// readLine returns one trimmed line. A final line without a newline is
// returned without error; io.EOF is returned only when nothing was read.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
