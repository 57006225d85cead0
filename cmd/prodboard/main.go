package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/prodboard/internal/cli"
	"github.com/alexanderramin/prodboard/internal/config"
	"github.com/alexanderramin/prodboard/internal/db"
	"github.com/alexanderramin/prodboard/internal/logging"
	"github.com/alexanderramin/prodboard/internal/repository"
	"github.com/alexanderramin/prodboard/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Config: cfg,
		Logger: logger,
	}

	// Detect interactive terminal for forms and the board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var database *sql.DB
	app.Bootstrap = func(a *cli.App) error {
		database, err = db.OpenDB(a.Config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database opened", zap.String("path", a.Config.DBPath))
		wire(a, database, logger)
		return nil
	}
	defer func() {
		if database != nil {
			closeLogged(database, logger)
		}
	}()

	return cli.NewRootCmd(app).Execute()
}

// closeLogged closes c, logging a failure as a warning.
func closeLogged(c io.Closer, logger *zap.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("closing database", zap.Error(err))
	}
}

// wire builds repositories and services over an open database.
func wire(app *cli.App, database *sql.DB, logger *zap.Logger) {
	productRepo := repository.NewSQLiteProductRepo(database)
	featureRepo := repository.NewSQLiteFeatureRepo(database)
	historyRepo := repository.NewSQLiteHistoryRepo(database)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if app.Config.LogUseCases {
		observers = append(observers, service.NewZapUseCaseObserver(logger))
	}
	policy := service.ValidationPolicy{
		AllowPastStart: app.Config.AllowPastStart,
		MaxSpanDays:    app.Config.MaxSpanDays,
	}

	app.Products = service.NewProductService(productRepo, observers...)
	app.Features = service.NewFeatureService(featureRepo, historyRepo, uow, policy, observers...)
	app.Feedback = service.NewFeedbackService(productRepo, featureRepo, feedbackRepo, observers...)
	app.Import = service.NewImportService(uow, policy, observers...)
	app.Export = service.NewExportService(productRepo, featureRepo)
}
