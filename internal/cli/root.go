package cli

import (
	"github.com/alexanderramin/prodboard/internal/config"
	"github.com/alexanderramin/prodboard/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Products service.ProductService
	Features service.FeatureService
	Feedback service.FeedbackService
	Import   service.ImportService
	Export   service.ExportService

	Config config.Config
	Logger *zap.Logger

	// IsInteractive reports whether stdin is a terminal. nil means never.
	IsInteractive func() bool

	// Bootstrap opens storage and wires the services once flags are
	// parsed. Tests leave it nil and set the services directly.
	Bootstrap func(app *App) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "prodboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "prodboard",
		Short:         "Feature backlog with RICE scoring and dependency checks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap == nil {
				return nil
			}
			return app.Bootstrap(app)
		},
	}

	root.PersistentFlags().StringVar(&app.Config.DBPath, "db", app.Config.DBPath, "SQLite database path (overrides PRODBOARD_DB)")

	root.AddCommand(
		newProductCmd(app),
		newFeatureCmd(app),
		newBacklogCmd(app),
		newRoadmapCmd(app),
		newBoardCmd(app),
		newFeedbackCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}
