// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

func TestToggleIsAnInvolution(t *testing.T) {
	t.Parallel()

	s := NewUnavailabilityStore(filepath.Join(t.TempDir(), "unavailable.json"), zerolog.Nop())

	assert.False(t, s.IsUnavailable("Breaking Bad (2008)", domain.ArtworkLogo))

	on, err := s.Toggle("Breaking Bad (2008)", domain.ArtworkLogo)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsUnavailable("Breaking Bad (2008)", domain.ArtworkLogo))

	off, err := s.Toggle("Breaking Bad (2008)", domain.ArtworkLogo)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, s.IsUnavailable("Breaking Bad (2008)", domain.ArtworkLogo))
}

func TestUnavailabilityKindsAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewUnavailabilityStore(filepath.Join(t.TempDir(), "unavailable.json"), zerolog.Nop())

	require.NoError(t, s.MarkUnavailable("Heat (1995)", domain.ArtworkLogo))

	assert.True(t, s.IsUnavailable("Heat (1995)", domain.ArtworkLogo))
	assert.False(t, s.IsUnavailable("Heat (1995)", domain.ArtworkBackdrop))
	assert.False(t, s.IsUnavailable("Alien (1979)", domain.ArtworkLogo))
}

func TestUnavailabilityPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "unavailable.json")

	s := NewUnavailabilityStore(path, zerolog.Nop())
	_, err := s.Toggle("Heat (1995)", domain.ArtworkPoster)
	require.NoError(t, err)

	reopened := NewUnavailabilityStore(path, zerolog.Nop())
	assert.True(t, reopened.IsUnavailable("Heat (1995)", domain.ArtworkPoster))
}
