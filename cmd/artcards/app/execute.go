package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/internal/cmd/hints"
	"github.com/agentstation/artcards/internal/cmd/output"
)

// Execute runs the artcards CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	a.printHints(cmd, err)
	return err
}

// printHints suggests the next command on interactive table output.
func (a *App) printHints(cmd *cobra.Command, err error) {
	if cmd == nil || a.config.Quiet || output.DetectFormat(a.config.Format) != output.FormatTable {
		return
	}
	found := hints.Default().Hints(hints.Context{Command: cmd.CommandPath(), Err: err})
	_ = hints.Write(cmd.ErrOrStderr(), found)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "artcards",
		Short:   "Art card inventory CLI",
		Version: a.version,
		Long: `Artcards keeps an inventory of art-series cards in an Excel workbook.

It mirrors the art-series catalog into a Regular and a Signed ledger,
reconciles pasted price lists and marketplace exports into them, and
refreshes market prices in resumable batches that pick up where the
previous run stopped.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Global flags are read back in setupCommand so that unset flags do not
	// clobber values from the environment or the config file.
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.artcards.yaml)")
	flags.String("workbook", "", "inventory workbook (default artcards.xlsx)")
	flags.String("state", "", "state database (default artcards.db)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("artcards {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := loadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)
	if path := mustGetString(cmd, "workbook"); path != "" {
		a.config.Workbook = path
	}
	if path := mustGetString(cmd, "state"); path != "" {
		a.config.StateDB = path
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
