package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"timepad/internal/app"
	"timepad/internal/config"
	"timepad/internal/timepad"
	"timepad/internal/ui"
)

const shellPrompt = "timepad> "

func main() {
	c := &cli{}
	if err := newRootCmd(c).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the persistent flag values for one command tree. The interactive
// shell copies it per line so flags given on one line do not leak into the next.
type cli struct {
	flags   timepad.Flags
	verbose bool

	inShell  bool
	terminal *ui.Terminal
}

// loadConfig reads the config file, falling back to defaults when it is missing.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}
	path := defaults["config_path"]
	cfg, err := config.ReadFromFile(path, config.NewConfig(defaults["state_dir"]))
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, path, nil
}

// newApp reads the config and creates a TimepadApp. The caller must defer app.Close().
func (c *cli) newApp() (*app.TimepadApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	streams := app.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Terminal: c.terminal}
	a, err := app.NewTimepadApp(cfg, c.flags, streams, c.verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func (c *cli) run(cmd app.Command) error {
	a, err := c.newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "timepad",
		Short:         "Timestamped notes in plain files",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.inShell {
				return cmd.Help()
			}
			return c.shell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.flags.Dir, "dir", c.flags.Dir, "Entry directory (overrides $TIMEPAD and $LOG_DIR)")
	root.PersistentFlags().BoolVarP(&c.flags.UseCwd, "cwd", "c", c.flags.UseCwd, "Use the current directory for entries")
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", c.verbose, "Log debug output to stderr")

	root.AddCommand(
		newConfigCmd(),
		newNewCmd(c),
		newListCmd(c, "list", "List entries", app.CommandList),
		newLsCmd(c),
		newPatternCmd(c, "cat PATTERN...", "Print an entry", app.CommandCat),
		newListCmd(c, "dump", "Print all entries", app.CommandDump),
		newPatternCmd(c, "edit PATTERN...", "Open an entry in the editor", app.CommandEdit),
		newPatternCmd(c, "rm PATTERN...", "Delete an entry", app.CommandRemove),
		newPatternCmd(c, "mv PATTERN...", "Move an entry to a new filename", app.CommandMove),
		newPatternCmd(c, "cp PATTERN...", "Copy an entry to a new filename", app.CommandCopy),
		newRenameCmd(c),
		newPatternCmd(c, "bak PATTERN...", "Write a .bak copy of an entry", app.CommandBackup),
		newExportCmd(c),
	)
	return root
}

// shell reads command lines and runs each through a fresh command tree.
func (c *cli) shell(in io.Reader, out, errOut io.Writer) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	c.terminal = ui.NewTerminal(in, out, errOut, ui.ShouldColor(cfg.Display.Color, os.Stdout))

	for {
		line, err := c.terminal.ReadCommand(shellPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		words, err := shlex.Split(line)
		if err != nil {
			c.terminal.Error(fmt.Errorf("parsing command: %w", err))
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			return nil
		}

		lineCLI := *c
		lineCLI.inShell = true
		cmd := newRootCmd(&lineCLI)
		cmd.SetArgs(words)
		cmd.SetOut(out)
		cmd.SetErr(errOut)
		// Errors are printed by cobra; the shell keeps going.
		_ = cmd.Execute()
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := app.GetDefaults()
			if err != nil {
				return fmt.Errorf("failed to get defaults: %w", err)
			}
			cfg := config.NewConfig(defaults["state_dir"])
			if err := config.Init(defaults["config_path"], cfg); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults["config_path"])
			fmt.Fprintf(cmd.OutOrStdout(), "Log Dir: %s\n", cfg.LogDir)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "View configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# Configuration from %s\n\n", path)
			m := &config.Manager{}
			return m.Write(cmd.OutOrStdout(), cfg)
		},
	}

	configCmd.AddCommand(initCmd, listCmd)
	return configCmd
}

func newNewCmd(c *cli) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "new [SUBJECT...]",
		Short: "Create an entry and open it in the editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(app.Command{Kind: app.CommandNew, Subject: strings.Join(args, " "), At: at})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `Timestamp override "YYYY-MM-DD HH:MM:SS"`)
	return cmd
}

// newListCmd builds list and dump, which share the direction flags.
func newListCmd(c *cli, use, short string, kind app.CommandKind) *cobra.Command {
	var asc, desc bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := timepad.Ascending
			if desc {
				direction = timepad.Descending
			}
			return c.run(app.Command{Kind: kind, Direction: direction})
		},
	}
	cmd.Flags().BoolVarP(&asc, "asc", "a", false, "Oldest first (default)")
	cmd.Flags().BoolVarP(&desc, "desc", "d", false, "Newest first")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
	return cmd
}

func newLsCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Print entry filenames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(app.Command{Kind: app.CommandLs, All: all})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include .bak files")
	return cmd
}

// newPatternCmd builds a command that resolves its arguments to one entry.
func newPatternCmd(c *cli, use, short string, kind app.CommandKind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(app.Command{Kind: kind, Query: strings.Join(args, " ")})
		},
	}
}

func newRenameCmd(c *cli) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "rename PATTERN [SUBJECT...]",
		Short: "Replace the subject of an entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(app.Command{
				Kind:    app.CommandRename,
				Query:   args[0],
				Subject: strings.Join(args[1:], " "),
				At:      at,
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `Timestamp override "YYYY-MM-DD HH:MM:SS"`)
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		output     string
		recipients []string
		armor      bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an age-encrypted dump of all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(app.Command{
				Kind:       app.CommandExport,
				Output:     output,
				Recipients: recipients,
				Armor:      armor,
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringArrayVarP(&recipients, "recipient", "r", nil, "age recipient (repeatable)")
	cmd.Flags().BoolVar(&armor, "armor", false, "PEM-armor the output")
	return cmd
}
