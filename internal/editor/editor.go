// Package editor launches the user's text editor on an entry file.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// DefaultCommand is used when neither the config nor the environment names an editor.
const DefaultCommand = "nano"

// Command picks the editor command line: the configured value, then $EDITOR,
// then $VISUAL, then DefaultCommand.
func Command(configured string, getenv func(string) string) string {
	for _, c := range []string{configured, getenv("EDITOR"), getenv("VISUAL")} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultCommand
}

// Args splits a command line shell-style and appends path. A command that
// does not split cleanly is used verbatim as the program name.
func Args(command, path string) []string {
	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		args = []string{command}
	}
	return append(args, path)
}

// ExitError reports a non-zero editor exit status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("editor %q exited with status %d", e.Command, e.Code)
}

// Launcher runs an external editor attached to the given terminal streams.
type Launcher struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewLauncher creates a Launcher for the given command line.
func NewLauncher(command string, stdin io.Reader, stdout, stderr io.Writer) *Launcher {
	return &Launcher{command: command, stdin: stdin, stdout: stdout, stderr: stderr}
}

// Edit blocks until the editor exits.
func (l *Launcher) Edit(path string) error {
	args := Args(l.command, path)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return &ExitError{Command: l.command, Code: exitErr.ExitCode()}
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("editor %q not found: %w", args[0], err)
	default:
		return fmt.Errorf("running editor: %w", err)
	}
}
