package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/spellbee/internal/assets"
	"github.com/verte-zerg/spellbee/internal/config"
	"github.com/verte-zerg/spellbee/internal/dictionary"
	"github.com/verte-zerg/spellbee/internal/fetch"
	"github.com/verte-zerg/spellbee/internal/logging"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/prefs"
	"github.com/verte-zerg/spellbee/internal/selection"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/stats"
	"github.com/verte-zerg/spellbee/internal/storage"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

// app wires the stores over one database for a single command run.
type app struct {
	cfg      config.FileConfig
	log      *zap.Logger
	port     storage.Port
	lists    *wordlist.Store
	sessions *session.Store
	stats    *stats.Aggregator
	prefs    *prefs.Store
	sel      *selection.Context
}

func loadConfig() (config.FileConfig, error) {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openApp(cfg config.FileConfig) (*app, error) {
	log, err := logging.New(config.StringOr(cfg.Log.File, config.DefaultLogPath()), config.StringOr(cfg.Log.Level, "info"))
	if err != nil {
		return nil, err
	}

	dbPath := config.StringOr(cfg.Storage.DB, config.DefaultDBPath())
	port, err := storage.OpenSQLite(dbPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	var listFS fs.FS = assets.FS
	if dir := config.StringOr(cfg.Lists.Dir, ""); dir != "" {
		listFS = os.DirFS(dir)
	}
	manifest := config.StringOr(cfg.Lists.Manifest, assets.ManifestName)

	agg := stats.NewAggregator(port, log)
	a := &app{
		cfg:      cfg,
		log:      log,
		port:     port,
		lists:    wordlist.NewStore(port, fetch.NewResolver(listFS), manifest, log),
		sessions: session.NewStore(port, agg, log),
		stats:    agg,
		prefs:    prefs.NewStore(port, log),
	}
	a.sel = selection.New(a.lists, a.prefs, log)
	log.Debug("application opened", zap.String("db", dbPath), zap.String("manifest", manifest))
	return a, nil
}

func (a *app) Close() {
	if err := a.port.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	_ = a.log.Sync()
}

// withApp loads the config, opens the stores and runs fn.
func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(context.Background(), a)
}

func (a *app) dictionary() *dictionary.Client {
	var timeout time.Duration
	if a.cfg.Dictionary.TimeoutSeconds != nil {
		timeout = time.Duration(*a.cfg.Dictionary.TimeoutSeconds) * time.Second
	}
	return dictionary.New(config.StringOr(a.cfg.Dictionary.Endpoint, dictionary.DefaultEndpoint), timeout, a.log)
}

func (a *app) apiKey(ctx context.Context) string {
	key, _, err := a.prefs.Get(ctx, model.PrefAPIKey)
	if err != nil {
		a.log.Warn("failed to read dictionary API key", zap.Error(err))
		return ""
	}
	return key
}

// interactive reports whether the history screen can take over the terminal.
var interactive = isTerminal

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
