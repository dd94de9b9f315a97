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

	"github.com/minicart/minicart/internal/api"
	"github.com/minicart/minicart/internal/auth"
	"github.com/minicart/minicart/internal/infra/logging"
	"github.com/minicart/minicart/internal/infra/pgutils"
	"github.com/minicart/minicart/internal/services/accounts"
	"github.com/minicart/minicart/internal/services/catalog"
	"github.com/minicart/minicart/internal/services/wallet"
	"github.com/minicart/minicart/pkg/envconf"
	"github.com/minicart/minicart/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db pool")
		return dbConns.Close()
	})

	// --- Services ---
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	accountsSrv := accounts.New(dbConns, tokens, cfg.StartingBalance)
	walletSrv := wallet.New(dbConns)
	catalogSrv := catalog.New(dbConns)

	// --- HTTP server ---
	handler := api.NewHandler(accountsSrv, walletSrv, catalogSrv, tokens)
	srv := api.NewServer(cfg.Port, handler)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
