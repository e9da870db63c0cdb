// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

func TestMappingStoreRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mediaDir := filepath.Join(dir, "The Matrix (1999)")
	require.NoError(t, os.Mkdir(mediaDir, 0o755))

	s := NewMappingStore(filepath.Join(dir, "mappings.json"), zerolog.Nop())

	_, ok := s.Get(domain.MediaKindMovie, "603")
	assert.False(t, ok, "empty store must miss cleanly")

	require.NoError(t, s.Set(domain.MediaKindMovie, "603", mediaDir))

	got, ok := s.Get(domain.MediaKindMovie, "603")
	require.True(t, ok)
	assert.Equal(t, mediaDir, got)

	// Same id under the other media kind is a different key.
	_, ok = s.Get(domain.MediaKindTV, "603")
	assert.False(t, ok)
}

func TestMappingStoreSelfHealsDeletedPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mediaDir := filepath.Join(dir, "The Matrix (1999)")
	require.NoError(t, os.Mkdir(mediaDir, 0o755))

	storeFile := filepath.Join(dir, "mappings.json")
	s := NewMappingStore(storeFile, zerolog.Nop())
	require.NoError(t, s.Set(domain.MediaKindMovie, "603", mediaDir))

	require.NoError(t, os.RemoveAll(mediaDir))

	_, ok := s.Get(domain.MediaKindMovie, "603")
	assert.False(t, ok)

	// The stale entry must be gone from the persisted document too.
	data, err := os.ReadFile(storeFile)
	require.NoError(t, err)
	var persisted map[string]string
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.NotContains(t, persisted, "movie_603")
}

func TestMappingStoreOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.Mkdir(first, 0o755))
	require.NoError(t, os.Mkdir(second, 0o755))

	s := NewMappingStore(filepath.Join(dir, "mappings.json"), zerolog.Nop())
	require.NoError(t, s.Set(domain.MediaKindTV, "1396", first))
	require.NoError(t, s.Set(domain.MediaKindTV, "1396", second))

	got, ok := s.Get(domain.MediaKindTV, "1396")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestMappingStoreCorruptFileStartsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storeFile := filepath.Join(dir, "mappings.json")
	require.NoError(t, os.WriteFile(storeFile, []byte("{not json"), 0o644))

	s := NewMappingStore(storeFile, zerolog.Nop())
	_, ok := s.Get(domain.MediaKindMovie, "603")
	assert.False(t, ok)

	// Writes still work after the corrupt load.
	require.NoError(t, s.Set(domain.MediaKindMovie, "603", dir))
	got, ok := s.Get(domain.MediaKindMovie, "603")
	require.True(t, ok)
	assert.Equal(t, dir, got)
}
