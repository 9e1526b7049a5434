package app

import (
	"fmt"

	"timepad/internal/timepad"
)

// CommandKind enumerates the operations the CLI can run.
type CommandKind int

const (
	CommandNew CommandKind = iota
	CommandList
	CommandLs
	CommandCat
	CommandDump
	CommandEdit
	CommandRemove
	CommandMove
	CommandCopy
	CommandRename
	CommandBackup
	CommandExport
)

var commandNames = map[CommandKind]string{
	CommandNew:    "new",
	CommandList:   "list",
	CommandLs:     "ls",
	CommandCat:    "cat",
	CommandDump:   "dump",
	CommandEdit:   "edit",
	CommandRemove: "rm",
	CommandMove:   "mv",
	CommandCopy:   "cp",
	CommandRename: "rename",
	CommandBackup: "bak",
	CommandExport: "export",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// TakesPattern reports whether the command resolves a single entry from a query.
func (k CommandKind) TakesPattern() bool {
	switch k {
	case CommandCat, CommandEdit, CommandRemove, CommandMove, CommandCopy, CommandRename, CommandBackup:
		return true
	default:
		return false
	}
}

// Command is one invocation. Only the fields relevant to Kind are read.
type Command struct {
	Kind CommandKind

	Query     string            // pattern commands
	Subject   string            // new, rename
	At        string            // new, rename: "YYYY-MM-DD HH:MM:SS"
	Direction timepad.Direction // list, dump
	All       bool              // ls: include backups

	Output     string   // export: file path, "" or "-" for stdout
	Recipients []string // export: age recipients
	Armor      bool     // export: PEM armor
}

// Validate checks that the fields Kind needs are present.
func (c Command) Validate() error {
	if _, ok := commandNames[c.Kind]; !ok {
		return fmt.Errorf("unknown command %v", c.Kind)
	}
	if c.Kind.TakesPattern() && c.Query == "" {
		return fmt.Errorf("%s: %w", c.Kind, timepad.ErrEmptyQuery)
	}
	return nil
}
