package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/cache"
	"github.com/at-ishikawa/paperpilot/internal/config"
	"github.com/at-ishikawa/paperpilot/internal/database"
	"github.com/at-ishikawa/paperpilot/internal/dictionary"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

var noopCloser = closerFunc(func() error { return nil })

// newPreferencesService opens the store selected by kind. The returned closer
// releases the database connection, if any.
func newPreferencesService(ctx context.Context, cfg *config.Config, kind PreferencesStore) (*preferences.Service, io.Closer, error) {
	var (
		db      *sqlx.DB
		dialect preferences.Dialect
		err     error
	)
	switch kind {
	case PreferencesStoreFile:
		return preferences.NewService(preferences.NewYAMLStore(cfg.Preferences.File)), noopCloser, nil
	case PreferencesStoreMySQL:
		db, err = database.OpenMySQL(cfg.Database)
		dialect = preferences.DialectMySQL
	case PreferencesStoreSQLite:
		db, err = database.OpenSQLite(cfg.Database)
		dialect = preferences.DialectSQLite
	default:
		return nil, nil, fmt.Errorf("unsupported preferences store: %s", kind)
	}
	if err != nil {
		return nil, nil, err
	}

	store, err := preferences.NewSQLStore(db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("preferences.NewSQLStore > %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("store.Migrate > %w", err)
	}
	return preferences.NewService(store), db, nil
}

// background is everything `paperpilot serve` runs: the upstream clients,
// their caches and the message handler.
type background struct {
	handler     *messaging.Handler
	preferences *preferences.Service
	closers     []io.Closer
}

func newBackground(ctx context.Context, cfg *config.Config, kind PreferencesStore) (*background, error) {
	prefs, prefsCloser, err := newPreferencesService(ctx, cfg, kind)
	if err != nil {
		return nil, fmt.Errorf("newPreferencesService > %w", err)
	}

	retry := lookup.RetryConfig{
		MaxRetryAttempts: cfg.Lookup.MaxRetryAttempts,
		Delay:            cfg.Lookup.RetryDelay,
	}
	dictionaryClient := dictionary.NewClient(dictionary.Config{
		BaseURL: cfg.Dictionary.BaseURL,
		Retry:   retry,
	}, cache.New[[]dictionary.Entry](cfg.Lookup.CacheTTL))
	arxivClient := arxiv.NewClient(arxiv.Config{
		BaseURL: cfg.Arxiv.BaseURL,
		Retry:   retry,
	}, cache.New[[]arxiv.Entry](cfg.Lookup.CacheTTL))

	return &background{
		handler:     messaging.NewHandler(dictionaryClient, arxivClient, prefs),
		preferences: prefs,
		closers:     []io.Closer{arxivClient, prefsCloser},
	}, nil
}

func (b *background) Close() error {
	var firstErr error
	for _, closer := range b.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// uiConnection is how a page-side command reaches the background: over HTTP,
// or through an in-process bus when --embedded is set.
type uiConnection struct {
	sender      *messaging.Sender
	preferences interface {
		Get(ctx context.Context) (preferences.Preferences, error)
	}
	close func() error
}

func connect(ctx context.Context, cfg *config.Config, embedded bool, kind PreferencesStore) (*uiConnection, error) {
	if !embedded {
		return &uiConnection{
			sender:      messaging.NewSender(messaging.NewHTTPTransport(cfg.Background.URL)),
			preferences: preferences.NewRemote(cfg.Background.URL),
			close:       func() error { return nil },
		}, nil
	}

	bg, err := newBackground(ctx, cfg, kind)
	if err != nil {
		return nil, err
	}
	bus := messaging.NewBus()
	bus.Listen(bg.handler)
	return &uiConnection{
		sender:      messaging.NewSender(bus),
		preferences: bg.preferences,
		close: func() error {
			bus.Close()
			return bg.Close()
		},
	}, nil
}

// readPreferences never fails; the overlay falls back to the defaults.
func (c *uiConnection) readPreferences(ctx context.Context) preferences.Preferences {
	prefs, err := c.preferences.Get(ctx)
	if err != nil {
		slog.Default().Warn("failed to read preferences, using defaults", "error", err)
		return preferences.Defaults()
	}
	return prefs
}
