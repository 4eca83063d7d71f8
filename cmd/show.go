package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-variables/cmd/config"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

func NewShowCmd(app **App) *cobra.Command {
	var (
		jsonOutput bool
		add        []string
	)

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Show a YAML or JSON object as a variable card",
		Long: `Build a variable card from an object in a YAML or JSON file and print it.

--add appends new keys of the given types, newest first, the same way the
editor's add-key action does.

Examples:
  vars show settings.yaml
  vars show settings.json --json
  vars show settings.yaml --add string --add object`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			v, err := value.ParseYAML(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if value.Infer(v) != models.TypeObject {
				return fmt.Errorf("%s does not contain an object", args[0])
			}

			types, err := config.ParseTypes(add)
			if err != nil {
				return fmt.Errorf("parse --add: %w", err)
			}
			if len(add) == 0 {
				types = nil
			}

			tree := card.New(
				card.WithTypeChooser(card.FixedChoices(types...)),
				card.WithLogger(a.Logger),
			)
			item := value.NewItem(models.TypeObject)
			item.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			item.Value = v
			item.Status = models.StatusSaved
			root := tree.Build(item, false)

			for range types {
				if _, err := tree.PromptAddChild(cmd.Context(), root.ID()); err != nil {
					return fmt.Errorf("add key: %w", err)
				}
			}
			if err := tree.Commit(root.ID()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				fmt.Fprintln(out, root.JSONText())
				return nil
			}
			printTree(out, tree, root.ID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the JSON text view instead of the card tree")
	cmd.Flags().StringSliceVar(&add, "add", nil, "Add a new key of this type (repeatable)")

	return cmd
}
