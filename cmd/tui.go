package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-variables/internal/tui/editor"
	"github.com/mattsolo1/grove-variables/pkg/models"
)

// NewTuiCmd creates the `vars tui` command.
func NewTuiCmd(app **App) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive variable editor",
		Long: `Launch an interactive Terminal User Interface for browsing and editing the
variables of the configured store. Message variables are grouped by floor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for TTY
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("TUI mode requires an interactive terminal")
			}

			a := *app
			sc, err := models.ParseScope(scope)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := a.Config.OpenStore(ctx, a.Logger)
			if err != nil {
				return err
			}
			defer s.Close()

			model := editor.New(ctx, editor.Config{
				Store:  s,
				Scope:  sc,
				Types:  a.Config.Types,
				Window: a.Config.Window,
				Logger: a.Logger,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", string(models.ScopeGlobal), "Scope to open (global, chat, character, script, message)")

	return cmd
}
