package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/artcards/cmd/artcards/cmd/catalog"
	"github.com/agentstation/artcards/cmd/artcards/cmd/imports"
	"github.com/agentstation/artcards/cmd/artcards/cmd/prices"
	"github.com/agentstation/artcards/cmd/artcards/cmd/sort"
	"github.com/agentstation/artcards/cmd/artcards/cmd/summary"
	"github.com/agentstation/artcards/cmd/artcards/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(catalog.NewCommand(a))
	rootCmd.AddCommand(prices.NewCommand(a))
	rootCmd.AddCommand(imports.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(summary.NewCommand(a))
	rootCmd.AddCommand(sort.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
