// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package scancache memoizes full library scans, one JSON snapshot per
// (media kind, artwork kind) pair. A full rescan walks every media root over
// the network and takes seconds to minutes on a NAS with hundreds of
// directories, so after a single-item download the snapshot is patched in
// place instead of rebuilt. There is no TTL: the snapshot is correct only up
// to the last patch or invalidate, and drift caused outside this process is
// not detected.
package scancache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/artcache"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/pkg/jsonfile"
)

// Snapshot is one memoized scan result.
type Snapshot struct {
	MediaList []domain.MediaItem `json:"media_list"`
	Total     int                `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// Store reads and writes scan snapshots under a directory.
type Store struct {
	dir    string
	thumbs *artcache.Cache
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewStore creates a snapshot store. The thumbnail cache is cleared together
// with snapshots on invalidation so a manual refresh re-mirrors everything.
func NewStore(dir string, thumbs *artcache.Cache, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		thumbs: thumbs,
		logger: logger.With().Str("component", "scancache").Logger(),
	}
}

func (s *Store) file(media domain.MediaKind, art domain.ArtworkKind) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", media, art))
}

// Read returns the snapshot for a (media kind, artwork kind) pair, or false
// when none exists. A pure cache read; it never triggers a scan.
func (s *Store) Read(media domain.MediaKind, art domain.ArtworkKind) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(media, art)
}

// Write replaces the snapshot unconditionally and stamps it with the
// current time.
func (s *Store) Write(media domain.MediaKind, art domain.ArtworkKind, items []domain.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		MediaList: items,
		Total:     len(items),
		Timestamp: time.Now().UTC(),
	}
	return s.write(media, art, snap)
}

// PatchOne mutates the artwork fields of the single item whose directory
// path matches, then rewrites the snapshot file. The scan timestamp is
// preserved: a patch reflects one download, not a fresh scan. Returns false
// (and logs) when the snapshot or the item is absent.
func (s *Store) PatchOne(media domain.MediaKind, art domain.ArtworkKind, directoryPath string, patch domain.ArtworkInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.read(media, art)
	if !ok {
		s.logger.Debug().Str("path", directoryPath).Msg("patch skipped, no snapshot")
		return false
	}

	for i := range snap.MediaList {
		item := &snap.MediaList[i]
		if item.Path() != directoryPath {
			continue
		}
		if item.Artwork == nil {
			item.Artwork = make(map[domain.ArtworkKind]domain.ArtworkInfo)
		}
		item.Artwork[art] = patch
		if item.Unavailable[art] {
			delete(item.Unavailable, art)
		}
		if err := s.write(media, art, snap); err != nil {
			s.logger.Error().Err(err).Str("path", directoryPath).Msg("failed to persist snapshot patch")
			return false
		}
		return true
	}

	s.logger.Debug().Str("path", directoryPath).Msg("patch skipped, item not in snapshot")
	return false
}

// Invalidate deletes the snapshot and clears the local thumbnail mirror,
// forcing the next read-through to rescan and re-cache from scratch.
func (s *Store) Invalidate(media domain.MediaKind, art domain.ArtworkKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.file(media, art)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn().Err(err).Msg("failed to remove snapshot")
	}
	if s.thumbs != nil {
		s.thumbs.Clear()
	}
}

func (s *Store) read(media domain.MediaKind, art domain.ArtworkKind) (*Snapshot, bool) {
	var snap Snapshot
	path := s.file(media, art)
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}
	if err := jsonfile.Load(path, &snap); err != nil {
		s.logger.Warn().Err(err).Str("file", path).Msg("snapshot unreadable, treating as miss")
		return nil, false
	}
	return &snap, true
}

func (s *Store) write(media domain.MediaKind, art domain.ArtworkKind, snap *Snapshot) error {
	return jsonfile.Save(s.file(media, art), snap)
}
