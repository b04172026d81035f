package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/plancraft/internal/app"
	"github.com/alexanderramin/plancraft/internal/cli"
	"github.com/alexanderramin/plancraft/internal/cli/formatter"
	"github.com/alexanderramin/plancraft/internal/config"
	"github.com/alexanderramin/plancraft/internal/db"
	"github.com/alexanderramin/plancraft/internal/importer"
	"github.com/alexanderramin/plancraft/internal/intelligence"
	"github.com/alexanderramin/plancraft/internal/llm"
	"github.com/alexanderramin/plancraft/internal/repository"
	"github.com/alexanderramin/plancraft/internal/sandbox"
	"github.com/alexanderramin/plancraft/internal/service"
	"github.com/alexanderramin/plancraft/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	// Version information (set by build flags)
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := cli.NewRoot(wire, cli.BuildInfo{Version: version, Commit: commit, Date: buildDate})
	err := root.Execute(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, cli.ErrReplyFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// wire builds the application graph from the loaded configuration.
func wire(cfg *config.Config, streams cli.Streams) (*cli.App, error) {
	logger, logFile, err := config.NewLogger(cfg.Logging, streams.Err)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	closers := []io.Closer{logFile}

	planStore := store.New(store.WithLogger(logger))

	// Wire the reasoning backend
	llmCfg := cfg.Transport()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	var questions app.QuestionSource = intelligence.NewQuestionSetService(llm.NewOllamaClient(llmCfg, observer))
	if cfg.Questions.File != "" {
		questions = importer.NewFileSource(cfg.Questions.File)
	}

	opts := []app.PlanOption{
		app.WithLogger(logger),
		app.WithInteractive(isInteractive),
	}
	if isTerminal(os.Stderr) {
		opts = append(opts, app.WithProgress(func(msg string) func() {
			return formatter.StartSpinner(streams.Err, msg)
		}))
	}

	// The catalog is an index over plans/; the plan builder works without it.
	var reader app.CatalogReader
	if cfg.Catalog.Enabled {
		catalog, database, err := openCatalog(cfg.Catalog.Path, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Catalog.Path).Msg("plan catalog unavailable, continuing without it")
		} else {
			closers = append(closers, database)
			opts = append(opts, app.WithCatalog(catalog))
			reader = catalog
		}
	}

	prompter := cli.NewHuhPrompter(streams.In, streams.Out)
	queries := app.NewPlanQueries(planStore, reader, logger)

	logger.Debug().
		Str("version", version).
		Str("workspace", cfg.Workspace.Dir).
		Str("model", llmCfg.Model).
		Bool("catalog", reader != nil).
		Msg("plancraft initialized")

	return &cli.App{
		Workspace: cfg.Workspace.Dir,
		Handler: app.NewRouter(
			app.NewPlanCommand(questions, planStore, prompter, opts...),
			app.NewPlansCommand(queries),
		),
		Queries: queries,
		Sandbox: sandbox.NewImageChecker(sandbox.ExecRunner{}, cfg.Sandbox.Binary, logger),
		Close: func() error {
			var errs []error
			for i := len(closers) - 1; i >= 0; i-- {
				errs = append(errs, closers[i].Close())
			}
			return errors.Join(errs...)
		},
	}, nil
}

func openCatalog(path string, logger zerolog.Logger) (service.CatalogService, io.Closer, error) {
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}
	catalog := service.NewCatalogService(
		repository.NewSQLitePlanRepo(database),
		repository.NewSQLiteRunRepo(database),
		db.NewSQLiteUnitOfWork(database),
		service.NewLogUseCaseObserver(logger),
	)
	return catalog, database, nil
}

// isInteractive requires both stdin and stdout to be terminals.
func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
