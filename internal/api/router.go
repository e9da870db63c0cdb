// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package api wires the HTTP surface: JSON endpoints under /api, full
// artwork under /media, and the thumbnail mirror under /cache.
package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/api/handlers"
	"github.com/anthonysnyder/backgroundarr/internal/artcache"
	"github.com/anthonysnyder/backgroundarr/internal/artwork"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/matcher"
	"github.com/anthonysnyder/backgroundarr/internal/notifications"
	"github.com/anthonysnyder/backgroundarr/internal/scancache"
	"github.com/anthonysnyder/backgroundarr/internal/scanner"
	"github.com/anthonysnyder/backgroundarr/internal/store"
	"github.com/anthonysnyder/backgroundarr/internal/tmdb"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Config         *domain.Config
	Library        *scanner.Library
	Resolver       *matcher.Resolver
	Downloader     *artwork.Downloader
	Provider       *tmdb.Client
	Thumbs         *artcache.Cache
	Snapshots      *scancache.Store
	Unavailability *store.UnavailabilityStore
	Notifier       *notifications.SlackNotifier
}

// Server builds the HTTP handler tree.
type Server struct {
	deps *Dependencies
}

// NewServer creates a Server.
func NewServer(deps *Dependencies) *Server {
	return &Server{deps: deps}
}

// Handler returns the complete router, mounted under the configured base URL.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	s.routes(r)

	base := strings.TrimSuffix(s.deps.Config.BaseURL, "/")
	if base == "" {
		return r
	}
	outer := chi.NewRouter()
	outer.Mount(base, r)
	return outer
}

func (s *Server) routes(r chi.Router) {
	health := handlers.NewHealthHandler()
	files := handlers.NewFilesHandler(s.deps.Config, s.deps.Thumbs.Dir())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Health)
		r.Get("/version", health.Version)

		r.Route("/library", handlers.NewLibraryHandler(s.deps.Library).Routes)
		r.Route("/search", handlers.NewSearchHandler(s.deps.Provider).Routes)
		r.Route("/images", handlers.NewImagesHandler(s.deps.Provider, s.deps.Unavailability).Routes)
		r.Route("/artwork", handlers.NewArtworkHandler(
			s.deps.Resolver,
			s.deps.Downloader,
			s.deps.Thumbs,
			s.deps.Snapshots,
			s.deps.Notifier,
		).Routes)
		r.Route("/unavailable", handlers.NewUnavailableHandler(s.deps.Unavailability).Routes)
	})

	r.Route("/media", files.MediaRoutes)
	r.Route("/cache", files.CacheRoutes)
}

// ListenAddr returns the host:port the server should bind.
func (s *Server) ListenAddr() string {
	return net.JoinHostPort(s.deps.Config.Host, fmt.Sprintf("%d", s.deps.Config.Port))
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
