// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
)

// HealthHandler serves liveness and version endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	data, err := buildinfo.JSON()
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode version info")
		RespondError(w, http.StatusInternalServerError, "Failed to encode version info")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
