// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anthonysnyder/backgroundarr/internal/artwork"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/matcher"
	"github.com/anthonysnyder/backgroundarr/internal/notifications"
	"github.com/anthonysnyder/backgroundarr/internal/scanner"
)

// DirectoryResolver reconciles a title with an on-disk directory.
type DirectoryResolver interface {
	Resolve(ctx context.Context, req matcher.Request) (*matcher.Result, error)
	Confirm(ctx context.Context, req matcher.Request, selectedDirectory string) (*matcher.Result, error)
}

// ImageDownloader fetches an image and writes the full + thumbnail pair.
type ImageDownloader interface {
	Download(ctx context.Context, imageURL, dir string, kind domain.ArtworkKind) (*artwork.DownloadResult, error)
}

// ThumbnailMirror copies thumbnails into the local cache.
type ThumbnailMirror interface {
	Ensure(sourcePath, dirName, filename string) bool
	URLFor(dirName, filename string) string
}

// SnapshotPatcher updates a single item in a memoized scan.
type SnapshotPatcher interface {
	PatchOne(media domain.MediaKind, art domain.ArtworkKind, directoryPath string, patch domain.ArtworkInfo) bool
}

// Notifier announces completed downloads.
type Notifier interface {
	Notify(ev notifications.Event)
}

// ArtworkHandler runs the download pipeline: resolve the directory, fetch
// the image, mirror the thumbnail, patch the scan snapshot, notify.
type ArtworkHandler struct {
	resolver   DirectoryResolver
	downloader ImageDownloader
	thumbs     ThumbnailMirror
	snapshots  SnapshotPatcher
	notifier   Notifier
}

// NewArtworkHandler creates an ArtworkHandler.
func NewArtworkHandler(resolver DirectoryResolver, downloader ImageDownloader, thumbs ThumbnailMirror, snapshots SnapshotPatcher, notifier Notifier) *ArtworkHandler {
	return &ArtworkHandler{
		resolver:   resolver,
		downloader: downloader,
		thumbs:     thumbs,
		snapshots:  snapshots,
		notifier:   notifier,
	}
}

// Routes registers the artwork endpoints.
func (h *ArtworkHandler) Routes(r chi.Router) {
	r.Post("/{mediaKind}", h.download)
	r.Post("/{mediaKind}/confirm", h.confirm)
}

type artworkRequest struct {
	Title             string `json:"title"`
	ExternalID        string `json:"externalId"`
	ArtworkKind       string `json:"artworkKind"`
	ImageURL          string `json:"imageUrl"`
	DirectoryHint     string `json:"directoryHint,omitempty"`
	SelectedDirectory string `json:"selectedDirectory,omitempty"`
}

// DownloadResponse is the payload of a successful artwork download.
type DownloadResponse struct {
	Directory string             `json:"directory"`
	Path      string             `json:"path"`
	Method    matcher.Method     `json:"method"`
	Artwork   domain.ArtworkInfo `json:"artwork"`
}

func (h *ArtworkHandler) download(w http.ResponseWriter, r *http.Request) {
	media, body, art, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), matcher.Request{
		Title:         body.Title,
		ExternalID:    body.ExternalID,
		MediaKind:     media,
		DirectoryHint: body.DirectoryHint,
	})
	if err != nil {
		h.respondResolveError(w, err)
		return
	}

	h.finish(w, r, media, art, body, resolved)
}

// confirm accepts the user's explicit directory pick after a 409 from the
// download endpoint, then runs the same pipeline.
func (h *ArtworkHandler) confirm(w http.ResponseWriter, r *http.Request) {
	media, body, art, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	if body.SelectedDirectory == "" {
		RespondError(w, http.StatusBadRequest, "Missing selectedDirectory")
		return
	}

	resolved, err := h.resolver.Confirm(r.Context(), matcher.Request{
		Title:      body.Title,
		ExternalID: body.ExternalID,
		MediaKind:  media,
	}, body.SelectedDirectory)
	if err != nil {
		h.respondResolveError(w, err)
		return
	}

	h.finish(w, r, media, art, body, resolved)
}

func (h *ArtworkHandler) parseRequest(w http.ResponseWriter, r *http.Request) (domain.MediaKind, *artworkRequest, domain.ArtworkKind, bool) {
	media, ok := MediaKindParam(w, r)
	if !ok {
		return "", nil, "", false
	}
	var body artworkRequest
	if !DecodeJSON(w, r, &body) {
		return "", nil, "", false
	}
	art, err := domain.ParseArtworkKind(body.ArtworkKind)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid artwork kind")
		return "", nil, "", false
	}
	if body.ImageURL == "" {
		RespondError(w, http.StatusBadRequest, "Missing imageUrl")
		return "", nil, "", false
	}
	return media, &body, art, true
}

func (h *ArtworkHandler) respondResolveError(w http.ResponseWriter, err error) {
	var sel *matcher.NeedsSelectionError
	if errors.As(err, &sel) {
		RespondJSON(w, http.StatusConflict, map[string]any{
			"needs_selection": true,
			"candidates":      sel.Candidates,
		})
		return
	}
	var nf *matcher.NotFoundError
	if errors.As(err, &nf) {
		RespondError(w, http.StatusNotFound, "Directory not found")
		return
	}
	log.Error().Err(err).Msg("directory resolution failed")
	RespondError(w, http.StatusInternalServerError, "Failed to resolve directory")
}

// finish downloads the image into the resolved directory and propagates the
// result into the caches. Cache and notification steps never fail the
// request; the download already happened.
func (h *ArtworkHandler) finish(w http.ResponseWriter, r *http.Request, media domain.MediaKind, art domain.ArtworkKind, body *artworkRequest, resolved *matcher.Result) {
	dl, err := h.downloader.Download(r.Context(), body.ImageURL, resolved.Path, art)
	if err != nil {
		log.Error().Err(err).Str("directory", resolved.Directory).Msg("artwork download failed")
		RespondError(w, http.StatusBadGateway, "Image download failed")
		return
	}

	h.thumbs.Ensure(dl.ThumbPath, resolved.Directory, dl.ThumbName)

	info := domain.ArtworkInfo{
		Present:    true,
		URL:        scanner.MediaURL(resolved.Directory, dl.FullName),
		ThumbURL:   h.thumbs.URLFor(resolved.Directory, dl.ThumbName),
		Dimensions: fmt.Sprintf("%dx%d", dl.FullWidth, dl.FullHeight),
		Modified:   time.Now().Format("2006-01-02"),
	}
	h.snapshots.PatchOne(media, art, resolved.Path, info)

	title := body.Title
	if title == "" {
		title = resolved.Directory
	}
	h.notifier.Notify(notifications.Event{
		Message:   fmt.Sprintf("New %s saved for %s", art, title),
		LocalPath: dl.FullPath,
		SourceURL: body.ImageURL,
	})

	RespondJSON(w, http.StatusOK, DownloadResponse{
		Directory: resolved.Directory,
		Path:      resolved.Path,
		Method:    resolved.Method,
		Artwork:   info,
	})
}
