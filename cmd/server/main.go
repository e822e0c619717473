// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Narcomap server: community hazard markers with phone-based login,
// moderation workflow, and an append-only audit trail.
//
// Startup order: configuration, logging, database, domain services, HTTP
// router, then the supervision tree, which restarts the HTTP server and
// background janitors with backoff if they fail. SIGINT/SIGTERM cancel
// the root context and trigger graceful shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/narcomap/narcomap/internal/api"
	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/logging"
	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/media"
	"github.com/narcomap/narcomap/internal/moderation"
	"github.com/narcomap/narcomap/internal/supervisor"
	"github.com/narcomap/narcomap/internal/supervisor/services"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("starting narcomap")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("closing database failed")
		}
	}()

	photos, err := newPhotoStorage(cfg.Media)
	if err != nil {
		return fmt.Errorf("setting up photo storage: %w", err)
	}

	markers := marker.NewService(db, photos, cfg.Markers, cfg.Media.MaxUploadBytes)
	authority := moderation.NewAuthority(db)
	otpService := auth.NewOTPService(db, auth.NewSMSSender(cfg.SMS), cfg.Auth)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	handler := api.NewHandler(db, markers, authority, otpService, jwtManager, cfg)
	router := api.NewRouter(handler, jwtManager, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultConfig())
	tree.Add(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	tree.Add(services.NewOTPJanitor(db, cfg.Auth.OTPTTL*2))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logging.Info().Msg("shutdown complete")
	return nil
}

func newPhotoStorage(cfg config.MediaConfig) (media.Storage, error) {
	if cfg.Backend == "s3" {
		return media.NewS3Storage(cfg.S3)
	}
	return media.NewLocalStorage(cfg.LocalDir)
}
