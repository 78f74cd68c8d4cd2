package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/cli"
	"github.com/alexanderramin/tinytrail/internal/config"
	"github.com/alexanderramin/tinytrail/internal/credential"
	"github.com/alexanderramin/tinytrail/internal/db"
	"github.com/alexanderramin/tinytrail/internal/logging"
	"github.com/alexanderramin/tinytrail/internal/repository"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TINYTRAIL_CONFIG"))
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	database, err := db.OpenDB(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := credential.NewStore(
		repository.NewSQLiteStorageRepo(database),
		credential.WithUnitOfWork(db.NewSQLiteUnitOfWork(database)),
		credential.WithLogger(logging.Component(logger, "credential")),
	)

	sess := session.New(ctx, store, session.WithLogger(logging.Component(logger, "session")))
	defer sess.Close()

	var observer api.Observer = api.NoopObserver{}
	if cfg.API.LogCalls {
		observer = api.NewLogObserver(logging.Component(logger, "api"))
	}

	var opts []api.Option
	if cfg.LogoutOnUnauthorized {
		opts = append(opts, api.WithOnUnauthorized(func(ctx context.Context) {
			if err := sess.Logout(ctx); err != nil {
				logger.Warn().Err(err).Msg("clearing rejected credential")
			}
		}))
	}
	client := api.NewClient(api.Config{
		BaseURL:       cfg.API.BaseURL,
		PublicBaseURL: cfg.API.PublicBaseURL,
		TimeoutMs:     cfg.API.TimeoutMs,
	}, store, observer, opts...)

	agg := analytics.NewAggregator(client,
		analytics.WithKeepStaleOnError(cfg.KeepStaleOnError),
		analytics.WithLogger(logging.Component(logger, "analytics")),
	)

	app := &cli.App{
		Session:     sess,
		API:         client,
		Analytics:   agg,
		Credentials: store,
		Logger:      logger,
		Now:         time.Now,
		// Prompts and the dashboard need a terminal on both ends.
		Interactive: func() bool {
			return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
