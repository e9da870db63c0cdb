// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/anthonysnyder/backgroundarr/internal/api"
	"github.com/anthonysnyder/backgroundarr/internal/artcache"
	"github.com/anthonysnyder/backgroundarr/internal/artwork"
	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
	"github.com/anthonysnyder/backgroundarr/internal/config"
	"github.com/anthonysnyder/backgroundarr/internal/matcher"
	"github.com/anthonysnyder/backgroundarr/internal/mediafs"
	"github.com/anthonysnyder/backgroundarr/internal/notifications"
	"github.com/anthonysnyder/backgroundarr/internal/scancache"
	"github.com/anthonysnyder/backgroundarr/internal/scanner"
	"github.com/anthonysnyder/backgroundarr/internal/store"
	"github.com/anthonysnyder/backgroundarr/internal/tmdb"
)

const shutdownTimeout = 10 * time.Second

func RunServeCommand() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCfg, err := config.New(configDir, buildinfo.Version)
			if err != nil {
				return err
			}
			cfg := appCfg.Config
			config.InitLogger(cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := log.Logger
			index := mediafs.NewIndex(cfg, logger)
			thumbs := artcache.New(cfg.CacheDir(), logger)
			mappings := store.NewMappingStore(cfg.MappingFile(), logger)
			unav := store.NewUnavailabilityStore(cfg.UnavailabilityFile(), logger)
			snapshots := scancache.NewStore(cfg.ScanCacheDir(), thumbs, logger)
			scan := scanner.NewScanner(index, thumbs, unav, logger)

			notifier := notifications.NewSlackNotifier(cfg.SlackWebhookURL, logger)
			notifier.Start(ctx)

			server := api.NewServer(&api.Dependencies{
				Config:         cfg,
				Library:        scanner.NewLibrary(scan, snapshots, logger),
				Resolver:       matcher.NewResolver(index, mappings, cfg.MatchThreshold, logger),
				Downloader:     artwork.NewDownloader(logger),
				Provider:       tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBLanguage, logger),
				Thumbs:         thumbs,
				Snapshots:      snapshots,
				Unavailability: unav,
				Notifier:       notifier,
			})

			httpServer := &http.Server{
				Addr:    server.ListenAddr(),
				Handler: server.Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", httpServer.Addr).
					Str("version", buildinfo.Version).
					Msg("starting server")
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config", "", "Directory containing config.toml (default: OS config dir)")
	return cmd
}
