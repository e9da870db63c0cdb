// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package store persists the small durable records of the application as
// single JSON documents: the directory-mapping store and the artwork
// unavailability record. Each store is guarded by its own mutex so unrelated
// operations never serialize against each other, and saves are atomic
// temp-file-then-rename writes (see pkg/jsonfile).
package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/pkg/jsonfile"
)

// MappingStore records confirmed (media kind, external id) → directory path
// resolutions so the resolver never fuzzy-matches the same item twice.
// The document layout is { "movie_603": "/movies/The Matrix (1999)" }.
type MappingStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewMappingStore opens (or lazily creates) the mapping store at path.
func NewMappingStore(path string, logger zerolog.Logger) *MappingStore {
	return &MappingStore{
		path:   path,
		logger: logger.With().Str("component", "mappings").Logger(),
	}
}

// MappingKey builds the durable join key for a media kind and external id.
func MappingKey(kind domain.MediaKind, externalID string) string {
	return fmt.Sprintf("%s_%s", kind, externalID)
}

// Get returns the recorded directory path for an external id. A stored path
// that no longer exists on disk is deleted from the persisted document as a
// side effect and reported as a miss, self-healing after manual moves.
func (s *MappingStore) Get(kind domain.MediaKind, externalID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings := s.load()
	key := MappingKey(kind, externalID)

	path, ok := mappings[key]
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		s.logger.Info().Str("key", key).Str("path", path).Msg("mapped path gone, dropping stale entry")
		delete(mappings, key)
		if err := jsonfile.Save(s.path, mappings); err != nil {
			s.logger.Error().Err(err).Msg("failed to persist mapping cleanup")
		}
		return "", false
	}
	return path, true
}

// Set records a resolution, overwriting any previous entry unconditionally.
func (s *MappingStore) Set(kind domain.MediaKind, externalID, dirPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings := s.load()
	mappings[MappingKey(kind, externalID)] = dirPath
	return jsonfile.Save(s.path, mappings)
}

// load reads the current document. A corrupt file is logged and treated as
// empty rather than wedging every future resolution.
func (s *MappingStore) load() map[string]string {
	mappings := make(map[string]string)
	if err := jsonfile.Load(s.path, &mappings); err != nil {
		s.logger.Warn().Err(err).Msg("mapping store unreadable, starting empty")
		return make(map[string]string)
	}
	return mappings
}
