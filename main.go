package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-variables/cmd"
	"github.com/mattsolo1/grove-variables/cmd/config"
)

var app *cmd.App

func main() {
	rootCmd := &cobra.Command{
		Use:          "vars",
		Short:        "Browse and edit typed variables as cards",
		SilenceUsage: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		config.InitConfig()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app = &cmd.App{Config: cfg, Logger: cfg.NewLogger()}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewRenderCmd(&app))
	rootCmd.AddCommand(cmd.NewShowCmd(&app))
	rootCmd.AddCommand(cmd.NewImportCmd(&app))
	rootCmd.AddCommand(cmd.NewTuiCmd(&app))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
