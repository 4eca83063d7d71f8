package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-variables/cmd/config"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

func NewRenderCmd(app **App) *cobra.Command {
	var (
		minFloor string
		maxFloor string
		keyword  string
		types    []string
		where    string
		watch    bool
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render message variables grouped by floor",
		Long: `Render the message-scope variables of the configured store, newest floor first.

Without --min/--max the last few floors are shown.

Examples:
  vars render
  vars render --min 10 --max 20 --types number,boolean
  vars render --where 'type == "number" && value > 100'
  vars render --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := a.Config.OpenStore(ctx, a.Logger)
			if err != nil {
				return err
			}
			defer s.Close()

			filter, err := buildFilter(a.Config, keyword, types, where)
			if err != nil {
				return err
			}

			lo, hi := floor.ParseBound(minFloor), floor.ParseBound(maxFloor)
			if minFloor == "" && maxFloor == "" {
				last, err := s.LastFloor(ctx)
				if err != nil {
					return fmt.Errorf("read last floor: %w", err)
				}
				lo, hi = floor.DefaultRange(last, a.Config.Window)
			}

			surface := &textSurface{w: cmd.OutOrStdout(), all: all}
			pipeline := floor.New(surface,
				floor.WithStore(s),
				floor.WithFilter(floor.StaticFilter(filter)),
				floor.WithLogger(a.Logger),
				floor.WithCardOptions(card.WithLogger(a.Logger)),
			)

			res := pipeline.Render(ctx, lo, hi)
			if !watch {
				return res.Err
			}

			fs, ok := s.(*store.FileStore)
			if !ok {
				return fmt.Errorf("--watch needs the file store, not %q", a.Config.Store.Driver)
			}
			err = fs.Watch(ctx, func() {
				go pipeline.Render(ctx, lo, hi)
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&minFloor, "min", "", "Lowest floor to show")
	cmd.Flags().StringVar(&maxFloor, "max", "", "Highest floor to show")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Only show variables whose name or value contains the keyword")
	cmd.Flags().StringSliceVarP(&types, "types", "t", nil, "Only show these types (default from filter.types)")
	cmd.Flags().StringVar(&where, "where", "", "Filter expression over name, type, value and floor")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the store file changes")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Expand every floor, not only the newest")

	return cmd
}

func buildFilter(cfg *config.Config, keyword string, typeNames []string, where string) (floor.Filter, error) {
	types := cfg.Types
	if len(typeNames) > 0 {
		parsed, err := config.ParseTypes(typeNames)
		if err != nil {
			return floor.Filter{}, fmt.Errorf("parse --types: %w", err)
		}
		types = parsed
	}
	filter := floor.Filter{Types: make(map[models.DataType]bool), Keyword: keyword}
	for _, dt := range types {
		filter.Types[dt] = true
	}

	pred, err := floor.CompilePredicate(where)
	if err != nil {
		return floor.Filter{}, fmt.Errorf("compile --where: %w", err)
	}
	filter.Predicate = pred
	return filter, nil
}
