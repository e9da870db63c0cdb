// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/mediafs"
)

// FilesHandler serves artwork: full images straight from the media roots,
// thumbnails from the local cache mirror.
type FilesHandler struct {
	cfg      *domain.Config
	cacheDir string
}

// NewFilesHandler creates a FilesHandler. cacheDir is the thumbnail cache
// root.
func NewFilesHandler(cfg *domain.Config, cacheDir string) *FilesHandler {
	return &FilesHandler{cfg: cfg, cacheDir: cacheDir}
}

// MediaRoutes registers the full-image endpoint.
func (h *FilesHandler) MediaRoutes(r chi.Router) {
	r.Get("/{directory}/{filename}", h.serveMedia)
}

// CacheRoutes registers the thumbnail endpoint.
func (h *FilesHandler) CacheRoutes(r chi.Router) {
	r.Get("/{bucket}/{filename}", h.serveThumb)
}

// safeSegment rejects path elements that could escape the served directory.
func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && filepath.Base(s) == s
}

// serveMedia looks the directory up across every media root, movies first,
// and serves the file from the first root that has it. A ?refresh= query
// bypasses client caching after a fresh download.
func (h *FilesHandler) serveMedia(w http.ResponseWriter, r *http.Request) {
	dir := chi.URLParam(r, "directory")
	file := chi.URLParam(r, "filename")
	if !safeSegment(dir) || !safeSegment(file) || mediafs.IsSystemFolder(dir) {
		RespondError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	for _, root := range h.cfg.AllRoots() {
		path := filepath.Join(root, dir, file)
		if !mediafs.Exists(path) {
			continue
		}
		if r.URL.Query().Has("refresh") {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		http.ServeFile(w, r, path)
		return
	}

	RespondError(w, http.StatusNotFound, "File not found")
}

// serveThumb serves a mirrored thumbnail. Bucket names are content hashes,
// so aggressive caching is safe.
func (h *FilesHandler) serveThumb(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	file := chi.URLParam(r, "filename")
	if !safeSegment(bucket) || !safeSegment(file) {
		RespondError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	path := filepath.Join(h.cacheDir, bucket, file)
	if !mediafs.Exists(path) {
		RespondError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	http.ServeFile(w, r, path)
}
