// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error: message,
	})
}

// DecodeJSON decodes the request body into the provided struct.
// Returns false if decoding fails (error already sent to client).
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, dest *T) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// MediaKindParam extracts and validates the {mediaKind} URL parameter.
// Returns false if invalid (error already sent).
func MediaKindParam(w http.ResponseWriter, r *http.Request) (domain.MediaKind, bool) {
	kind, err := domain.ParseMediaKind(chi.URLParam(r, "mediaKind"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid media kind")
		return "", false
	}
	return kind, true
}

// ArtworkKindQuery extracts the optional ?artwork= query parameter,
// defaulting to backdrop. Returns false if invalid (error already sent).
func ArtworkKindQuery(w http.ResponseWriter, r *http.Request) (domain.ArtworkKind, bool) {
	raw := r.URL.Query().Get("artwork")
	if raw == "" {
		return domain.ArtworkBackdrop, true
	}
	kind, err := domain.ParseArtworkKind(raw)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid artwork kind")
		return "", false
	}
	return kind, true
}
