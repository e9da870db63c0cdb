// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

// UnavailabilityToggler flips the "provider has nothing" flag.
type UnavailabilityToggler interface {
	Toggle(dirName string, kind domain.ArtworkKind) (bool, error)
}

// UnavailableHandler toggles per-directory unavailability flags.
type UnavailableHandler struct {
	unav UnavailabilityToggler
}

// NewUnavailableHandler creates an UnavailableHandler.
func NewUnavailableHandler(unav UnavailabilityToggler) *UnavailableHandler {
	return &UnavailableHandler{unav: unav}
}

// Routes registers the unavailability endpoint.
func (h *UnavailableHandler) Routes(r chi.Router) {
	r.Post("/{mediaKind}", h.toggle)
}

type unavailableRequest struct {
	Directory   string `json:"directory"`
	ArtworkKind string `json:"artworkKind"`
}

func (h *UnavailableHandler) toggle(w http.ResponseWriter, r *http.Request) {
	if _, ok := MediaKindParam(w, r); !ok {
		return
	}
	var body unavailableRequest
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.Directory == "" {
		RespondError(w, http.StatusBadRequest, "Missing directory")
		return
	}
	art, err := domain.ParseArtworkKind(body.ArtworkKind)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid artwork kind")
		return
	}

	unavailable, err := h.unav.Toggle(body.Directory, art)
	if err != nil {
		log.Error().Err(err).Str("directory", body.Directory).Msg("failed to toggle unavailability")
		RespondError(w, http.StatusInternalServerError, "Failed to persist flag")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"directory":   body.Directory,
		"artworkKind": art,
		"unavailable": unavailable,
	})
}
