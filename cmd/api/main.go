package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ahorros/internal/config"
	"github.com/MrJamesThe3rd/ahorros/internal/export"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	ahorrosHttp "github.com/MrJamesThe3rd/ahorros/internal/http"
	dashboardHandler "github.com/MrJamesThe3rd/ahorros/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/ahorros/internal/http/export"
	goalHandler "github.com/MrJamesThe3rd/ahorros/internal/http/goal"
	importHandler "github.com/MrJamesThe3rd/ahorros/internal/http/importdata"
	settingsHandler "github.com/MrJamesThe3rd/ahorros/internal/http/settings"
	txHandler "github.com/MrJamesThe3rd/ahorros/internal/http/transaction"
	"github.com/MrJamesThe3rd/ahorros/internal/importer"
	"github.com/MrJamesThe3rd/ahorros/internal/store"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var importOpts []importer.Option
	if d, ok := cfg.ImportDelimiter(); ok {
		importOpts = append(importOpts, importer.WithDelimiter(d))
	}

	var (
		transactionService = transaction.NewService(docs.Transactions())
		goalService        = goal.NewService(docs.Goals())
		importService      = importer.NewService(transactionService, docs, importOpts...)
		exportService      = export.NewService(docs)
	)

	router := ahorrosHttp.New(ahorrosHttp.Handlers{
		Transactions: txHandler.NewHandler(transactionService),
		Goals:        goalHandler.NewHandler(goalService),
		Settings:     settingsHandler.NewHandler(docs),
		Dashboard:    dashboardHandler.NewHandler(docs),
		Import:       importHandler.NewHandler(importService, cfg.Server.MaxUpload),
		Export:       exportHandler.NewHandler(exportService),
	}, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "store", cfg.Store.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
