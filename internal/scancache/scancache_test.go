// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package scancache

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

func testItems(n int) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.MediaItem{
			Title:         fmt.Sprintf("Movie %02d", i),
			DirectoryName: fmt.Sprintf("Movie %02d (2020)", i),
			BaseFolder:    "/movies",
			CleanID:       fmt.Sprintf("movie-%02d", i),
			Artwork: map[domain.ArtworkKind]domain.ArtworkInfo{
				domain.ArtworkPoster: {Present: false},
			},
		})
	}
	return items
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "scans"), nil, zerolog.Nop())
}

func TestReadMissesBeforeWrite(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, ok := s.Read(domain.MediaKindMovie, domain.ArtworkPoster)
	assert.False(t, ok)
}

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Write(domain.MediaKindMovie, domain.ArtworkPoster, testItems(3)))

	snap, ok := s.Read(domain.MediaKindMovie, domain.ArtworkPoster)
	require.True(t, ok)
	assert.Equal(t, 3, snap.Total)
	assert.Len(t, snap.MediaList, 3)
	assert.False(t, snap.Timestamp.IsZero())

	// Pairs are independent snapshots.
	_, ok = s.Read(domain.MediaKindMovie, domain.ArtworkBackdrop)
	assert.False(t, ok)
	_, ok = s.Read(domain.MediaKindTV, domain.ArtworkPoster)
	assert.False(t, ok)
}

func TestPatchOneUpdatesSingleItem(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	items := testItems(10)
	require.NoError(t, s.Write(domain.MediaKindMovie, domain.ArtworkPoster, items))

	target := items[3].Path()
	patched := s.PatchOne(domain.MediaKindMovie, domain.ArtworkPoster, target, domain.ArtworkInfo{
		Present:  true,
		URL:      "/media/Movie%2003%20%282020%29/poster.jpg",
		ThumbURL: "/cache/abc/poster-thumb.jpg",
	})
	require.True(t, patched)

	snap, ok := s.Read(domain.MediaKindMovie, domain.ArtworkPoster)
	require.True(t, ok)
	require.Len(t, snap.MediaList, 10)

	for i, item := range snap.MediaList {
		if i == 3 {
			assert.True(t, item.Artwork[domain.ArtworkPoster].Present, "item %d", i)
			continue
		}
		assert.False(t, item.Artwork[domain.ArtworkPoster].Present, "item %d", i)
	}
}

func TestPatchOnePreservesScanTimestamp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	items := testItems(2)
	require.NoError(t, s.Write(domain.MediaKindMovie, domain.ArtworkPoster, items))

	before, ok := s.Read(domain.MediaKindMovie, domain.ArtworkPoster)
	require.True(t, ok)

	require.True(t, s.PatchOne(domain.MediaKindMovie, domain.ArtworkPoster, items[0].Path(), domain.ArtworkInfo{Present: true}))

	after, ok := s.Read(domain.MediaKindMovie, domain.ArtworkPoster)
	require.True(t, ok)
	assert.Equal(t, before.Timestamp, after.Timestamp)
}

func TestPatchOneUnknownItemIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Write(domain.MediaKindMovie, domain.ArtworkPoster, testItems(2)))

	assert.False(t, s.PatchOne(domain.MediaKindMovie, domain.ArtworkPoster, "/movies/Unknown (2000)", domain.ArtworkInfo{Present: true}))
	assert.False(t, s.PatchOne(domain.MediaKindTV, domain.ArtworkPoster, "/movies/Movie 00 (2020)", domain.ArtworkInfo{Present: true}))
}

func TestInvalidateForcesMiss(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Write(domain.MediaKindTV, domain.ArtworkBackdrop, testItems(1)))

	s.Invalidate(domain.MediaKindTV, domain.ArtworkBackdrop)

	_, ok := s.Read(domain.MediaKindTV, domain.ArtworkBackdrop)
	assert.False(t, ok)

	// Invalidating an already-missing snapshot is fine.
	s.Invalidate(domain.MediaKindTV, domain.ArtworkBackdrop)
}
