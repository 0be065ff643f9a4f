package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/ahorros/internal/config"
	"github.com/MrJamesThe3rd/ahorros/internal/database"
)

// Open builds the backend named by cfg.Store.Driver and loads the document.
// The returned close func releases the backend and is never nil.
func Open(ctx context.Context, cfg *config.Config) (*Store, func() error, error) {
	closer := func() error { return nil }

	var backend Backend

	switch cfg.Store.Driver {
	case config.DriverFile:
		backend = NewFileBackend(cfg.Store.Path)
	case config.DriverMemory:
		backend = NewMemoryBackend()
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, closer, err
		}

		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, closer, err
		}

		backend = NewPostgresBackend(db)
		closer = db.Close
	default:
		return nil, closer, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	s := New(backend, WithKey(cfg.Store.Key), WithCurrency(cfg.App.Currency))

	doc, err := s.Load(ctx)
	if err != nil {
		closer()
		return nil, func() error { return nil }, err
	}

	slog.Info("store loaded",
		"driver", cfg.Store.Driver,
		"transactions", len(doc.Transactions),
		"goals", len(doc.Goals),
	)

	return s, closer, nil
}
