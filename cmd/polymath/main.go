package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/catalog"
	"github.com/alexanderramin/polymath/internal/cli"
	"github.com/alexanderramin/polymath/internal/config"
	"github.com/alexanderramin/polymath/internal/db"
	"github.com/alexanderramin/polymath/internal/github"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/alexanderramin/polymath/internal/store"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load config from $POLYMATH_HOME or ~/.polymath
	dir := config.DefaultDir()
	if err := config.EnsureDefaultFile(dir); err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	st := store.New(database, db.NewSQLiteUnitOfWork(database))

	// Wire GitHub client and the owner gate
	ghCfg := github.Config{
		APIURL:  cfg.APIURL,
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Branch:  cfg.Branch,
		Path:    cfg.DataPath,
		Timeout: cfg.RequestTimeout(),
	}
	client := github.NewClient(ghCfg, github.NewLogObserver(logger))

	gate := auth.NewGate(client, st, cfg.Owner)
	if err := gate.Load(ctx); err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	deps := service.Deps{
		Catalog: catalog.FileSource{Path: cfg.CatalogPath},
		Store:   st,
		Gate:    gate,
		History: st.SyncLog(),
		Config:  cfg,
		Logger:  logger,
	}

	// Remote sync only exists when an owner is configured.
	if cfg.RemoteEnabled() {
		engine := remotesync.NewEngine(client, gate, st,
			remotesync.WithHistory(st.SyncLog()),
			remotesync.WithLogger(logger),
		)
		if err := engine.Load(ctx); err != nil {
			return fmt.Errorf("loading sync cache: %w", err)
		}
		gate.OnLogout(engine.Reset)
		engine.OnUnauthorized(gate.Logout)
		defer engine.StopAutoSync()
		deps.Sync = engine
	}

	tracker, err := service.Open(ctx, deps, service.NewLogUseCaseObserver(logger))
	if err != nil {
		return err
	}

	app := &cli.App{
		Subjects:    tracker.Subjects(),
		Projects:    tracker.Projects(),
		Progress:    tracker.Progress(),
		Transfer:    tracker.Transfer(),
		Session:     tracker.Session(),
		Preferences: tracker.Preferences(),
	}

	// Prompt only when a person is at the terminal.
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		app.Prompter = cli.HuhPrompter{}
	}

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// newLogger returns a slog.Logger writing through charmbracelet/log to
// stderr. config.Validate has already checked level.
func newLogger(level string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: lvl == log.DebugLevel,
		Prefix:          "polymath",
	})
	return slog.New(handler)
}
