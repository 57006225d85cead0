package cli

import (
	"fmt"

	"github.com/alexanderramin/prodboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBacklogCmd(app *App) *cobra.Command {
	var includeDone bool

	cmd := &cobra.Command{
		Use:   "backlog PRODUCT",
		Short: "Show the prioritized backlog (MoSCoW, then RICE score)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			ranked, err := app.Features.Prioritized(ctx, product.ID)
			if err != nil {
				return err
			}
			if !includeDone {
				open := ranked[:0]
				for _, f := range ranked {
					if !f.IsTerminal() {
						open = append(open, f)
					}
				}
				ranked = open
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBacklog(product, ranked))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDone, "all", false, "Include done features")

	return cmd
}

func newRoadmapCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roadmap PRODUCT",
		Short: "Show features grouped by the month they start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}
			months, err := app.Features.Roadmap(ctx, product.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRoadmap(product, months))
			return nil
		},
	}
}
