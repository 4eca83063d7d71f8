package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-variables/pkg/store"
)

func NewImportCmd(app **App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Copy a variables document into the configured store",
		Long: `Read a YAML or JSON variables document and write every variable into the
configured store, replacing variables with the same scope, floor and name.

The document looks like:

  scopes:
    global: {difficulty: hard}
  floors:
    "3": {hp: 42}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			ctx := cmd.Context()

			snap, err := store.ReadSnapshot(args[0])
			if err != nil {
				return err
			}
			entries, err := snap.Entries()
			if err != nil {
				return err
			}

			s, err := a.Config.OpenStore(ctx, a.Logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Put(ctx, entries...); err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			a.Logger.WithField("count", len(entries)).WithField("file", args[0]).Info("imported variables")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d variables into the %s store\n", len(entries), a.Config.Store.Driver)
			return nil
		},
	}
	return cmd
}
