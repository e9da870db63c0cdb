// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/tmdb"
)

// ImageLister is the provider image surface the handler consumes.
type ImageLister interface {
	Images(ctx context.Context, media domain.MediaKind, id string, kind domain.ArtworkKind) ([]tmdb.Image, error)
}

// UnavailabilityMarker records artwork kinds the provider has nothing for.
type UnavailabilityMarker interface {
	MarkUnavailable(dirName string, kind domain.ArtworkKind) error
}

// ImagesHandler lists provider images for one title.
type ImagesHandler struct {
	provider ImageLister
	unav     UnavailabilityMarker
}

// NewImagesHandler creates an ImagesHandler.
func NewImagesHandler(provider ImageLister, unav UnavailabilityMarker) *ImagesHandler {
	return &ImagesHandler{provider: provider, unav: unav}
}

// Routes registers the images endpoint.
func (h *ImagesHandler) Routes(r chi.Router) {
	r.Get("/{mediaKind}/{id}", h.images)
}

// images lists provider images of one kind. An empty result is a valid
// "nothing available" answer: when the request names the directory it is
// recorded as unavailable so the UI can badge it.
func (h *ImagesHandler) images(w http.ResponseWriter, r *http.Request) {
	media, ok := MediaKindParam(w, r)
	if !ok {
		return
	}
	art, ok := ArtworkKindQuery(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	images, err := h.provider.Images(r.Context(), media, id, art)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("provider images failed")
		RespondError(w, http.StatusBadGateway, "Metadata provider unavailable")
		return
	}

	type imageEntry struct {
		tmdb.Image
		FullURL string `json:"full_url"`
	}
	entries := make([]imageEntry, 0, len(images))
	for _, img := range images {
		entries = append(entries, imageEntry{Image: img, FullURL: tmdb.ImageURL(img.FilePath)})
	}

	unavailable := len(images) == 0
	if unavailable {
		if dir := r.URL.Query().Get("directory"); dir != "" {
			if err := h.unav.MarkUnavailable(dir, art); err != nil {
				log.Warn().Err(err).Str("directory", dir).Msg("failed to record unavailability")
			}
		}
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"images":      entries,
		"total":       len(entries),
		"unavailable": unavailable,
	})
}
