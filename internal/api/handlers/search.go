// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/tmdb"
)

// MetadataSearcher is the provider search surface the handler consumes.
type MetadataSearcher interface {
	Search(ctx context.Context, media domain.MediaKind, query string) ([]tmdb.SearchResult, error)
}

// SearchHandler proxies title searches to the metadata provider.
type SearchHandler struct {
	provider MetadataSearcher
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(provider MetadataSearcher) *SearchHandler {
	return &SearchHandler{provider: provider}
}

// Routes registers the search endpoint.
func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/{mediaKind}", h.search)
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	media, ok := MediaKindParam(w, r)
	if !ok {
		return
	}

	// The query can come in as a free-text search or as a raw folder name.
	query := r.URL.Query().Get("query")
	if query == "" {
		query = r.URL.Query().Get("folder")
	}
	if strings.TrimSpace(query) == "" {
		RespondError(w, http.StatusBadRequest, "Missing query")
		return
	}

	results, err := h.provider.Search(r.Context(), media, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("provider search failed")
		RespondError(w, http.StatusBadGateway, "Metadata provider unavailable")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"total":   len(results),
	})
}
