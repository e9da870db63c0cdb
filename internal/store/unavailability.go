// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/pkg/jsonfile"
)

// UnavailabilityStore remembers which artwork kinds the metadata provider had
// nothing usable for, keyed by directory name. It is a display hint only:
// a flagged item can still be retried at any time, and the flag is cleared
// only by an explicit toggle. Layout: { "Dir Name": { "backdrop": true } }.
type UnavailabilityStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewUnavailabilityStore opens (or lazily creates) the store at path.
func NewUnavailabilityStore(path string, logger zerolog.Logger) *UnavailabilityStore {
	return &UnavailabilityStore{
		path:   path,
		logger: logger.With().Str("component", "unavailability").Logger(),
	}
}

// IsUnavailable reports the current flag for a directory and artwork kind.
func (s *UnavailabilityStore) IsUnavailable(dirName string, kind domain.ArtworkKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()[dirName][kind]
}

// MarkUnavailable sets the flag, used when a provider search returned zero
// usable images for the requested kind.
func (s *UnavailabilityStore) MarkUnavailable(dirName string, kind domain.ArtworkKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := s.load()
	if flags[dirName] == nil {
		flags[dirName] = make(map[domain.ArtworkKind]bool)
	}
	flags[dirName][kind] = true
	return jsonfile.Save(s.path, flags)
}

// Toggle inverts the flag and returns the new value. Toggling twice always
// returns to the original state.
func (s *UnavailabilityStore) Toggle(dirName string, kind domain.ArtworkKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := s.load()
	if flags[dirName] == nil {
		flags[dirName] = make(map[domain.ArtworkKind]bool)
	}
	next := !flags[dirName][kind]
	flags[dirName][kind] = next

	if err := jsonfile.Save(s.path, flags); err != nil {
		return false, err
	}
	return next, nil
}

func (s *UnavailabilityStore) load() map[string]map[domain.ArtworkKind]bool {
	flags := make(map[string]map[domain.ArtworkKind]bool)
	if err := jsonfile.Load(s.path, &flags); err != nil {
		s.logger.Warn().Err(err).Msg("unavailability store unreadable, starting empty")
		return make(map[string]map[domain.ArtworkKind]bool)
	}
	return flags
}
