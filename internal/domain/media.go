// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package domain holds the core value types shared across the application:
// media and artwork kinds, library items, and the runtime configuration.
package domain

import (
	"fmt"
	"path/filepath"
)

// MediaKind is the top-level partition of folder roots and caches.
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// ParseMediaKind validates a user-supplied media kind string.
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case MediaKindMovie:
		return MediaKindMovie, nil
	case MediaKindTV:
		return MediaKindTV, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// ArtworkInfo describes the artwork state of a single kind for a media item.
type ArtworkInfo struct {
	Present    bool   `json:"present"`
	URL        string `json:"url,omitempty"`
	ThumbURL   string `json:"thumb_url,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
	Modified   string `json:"modified,omitempty"`
}

// MediaItem is one on-disk media directory as seen by a library scan.
// Items are rebuilt from scratch on every scan; the only mutation after
// construction is a targeted patch following a successful download.
type MediaItem struct {
	Title         string                      `json:"title"`
	DirectoryName string                      `json:"directory_name"`
	BaseFolder    string                      `json:"base_folder"`
	CleanID       string                      `json:"clean_id"`
	ExternalID    string                      `json:"external_id,omitempty"`
	Artwork       map[ArtworkKind]ArtworkInfo `json:"artwork"`
	Unavailable   map[ArtworkKind]bool        `json:"unavailable,omitempty"`
}

// Path returns the absolute directory path of the item.
func (m *MediaItem) Path() string {
	return filepath.Join(m.BaseFolder, m.DirectoryName)
}
