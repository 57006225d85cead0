package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board PRODUCT",
		Short: "Interactive prioritized board (s: cycle status, p: cycle priority)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !app.interactive() {
				return fmt.Errorf("board needs an interactive terminal; use 'prodboard backlog %s' instead", args[0])
			}
			product, err := resolveProduct(ctx, app, args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				newBoardModel(ctx, app.Features, product),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("board: %w", err)
			}
			return nil
		},
	}
}
