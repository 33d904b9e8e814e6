package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/medium-blog/internal/auth"
	"github.com/robalobadob/medium-blog/internal/config"
	"github.com/robalobadob/medium-blog/internal/httpserver"
	"github.com/robalobadob/medium-blog/internal/schema"
	"github.com/robalobadob/medium-blog/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	validator, err := schema.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load request schemas")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open store")
	}
	defer st.Close()

	srv := httpserver.New(httpserver.Options{
		Store:          st,
		Tokens:         auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL()),
		Validator:      validator,
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StorageBackend).Msg("starting blog server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		return store.OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return store.OpenSQLite(ctx, cfg.DatabaseURL)
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
