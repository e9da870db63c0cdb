// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/scancache"
)

// LibraryAccessor is the two-tier scan accessor the handler consumes.
type LibraryAccessor interface {
	Cached(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) *scancache.Snapshot
	Rescan(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) *scancache.Snapshot
}

// LibraryResponse is the payload of the library endpoints.
type LibraryResponse struct {
	MediaList []domain.MediaItem `json:"media_list"`
	Total     int                `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// LibraryHandler serves the scanned library view.
type LibraryHandler struct {
	library LibraryAccessor
}

// NewLibraryHandler creates a LibraryHandler.
func NewLibraryHandler(library LibraryAccessor) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// Routes registers the library endpoints.
func (h *LibraryHandler) Routes(r chi.Router) {
	r.Get("/{mediaKind}", h.list)
	r.Post("/{mediaKind}/refresh", h.refresh)
}

// list serves the cached library, scanning only on a cache miss. An optional
// ?filter= query fuzzy-matches against titles.
func (h *LibraryHandler) list(w http.ResponseWriter, r *http.Request) {
	media, ok := MediaKindParam(w, r)
	if !ok {
		return
	}
	art, ok := ArtworkKindQuery(w, r)
	if !ok {
		return
	}

	snap := h.library.Cached(r.Context(), media, art)
	items := snap.MediaList
	if filter := r.URL.Query().Get("filter"); filter != "" {
		items = filterItems(items, filter)
	}

	RespondJSON(w, http.StatusOK, LibraryResponse{
		MediaList: items,
		Total:     len(items),
		Timestamp: snap.Timestamp,
	})
}

// refresh forces a full rescan, dropping the snapshot and the thumbnail
// mirror first.
func (h *LibraryHandler) refresh(w http.ResponseWriter, r *http.Request) {
	media, ok := MediaKindParam(w, r)
	if !ok {
		return
	}
	art, ok := ArtworkKindQuery(w, r)
	if !ok {
		return
	}

	snap := h.library.Rescan(r.Context(), media, art)
	RespondJSON(w, http.StatusOK, LibraryResponse{
		MediaList: snap.MediaList,
		Total:     snap.Total,
		Timestamp: snap.Timestamp,
	})
}

func filterItems(items []domain.MediaItem, filter string) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNormalizedFold(filter, item.Title) {
			out = append(out, item)
		}
	}
	return out
}
