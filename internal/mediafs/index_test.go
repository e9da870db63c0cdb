// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package mediafs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

func newTestIndex(t *testing.T, movieRoots ...string) *Index {
	t.Helper()

	ix := NewIndex(&domain.Config{MovieFolders: movieRoots}, zerolog.Nop())
	// Keep retries fast in tests.
	ix.listAttempts = 2
	ix.listBaseDelay = time.Millisecond
	return ix
}

func TestListDirectoriesFiltersSystemFolders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{"Breaking Bad (2008)", "@eaDir", "#recycle", "The Wire (2002)"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0o755))
	}
	// Plain files are not media directories.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	ix := newTestIndex(t, root)
	got := ix.ListDirectories(context.Background(), root)

	assert.Equal(t, []string{"Breaking Bad (2008)", "The Wire (2002)"}, got)
}

func TestListDirectoriesUnreadableRootReturnsEmpty(t *testing.T) {
	t.Parallel()

	ix := newTestIndex(t, "/does/not/exist")
	got := ix.ListDirectories(context.Background(), "/does/not/exist")

	assert.Empty(t, got)
}

func TestAllDirectoriesConcatenatesRoots(t *testing.T) {
	t.Parallel()

	rootA := t.TempDir()
	rootB := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(rootA, "Alien (1979)"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(rootB, "Alien (1979)"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(rootB, "Heat (1995)"), 0o755))

	ix := newTestIndex(t, rootA, rootB)
	got := ix.AllDirectories(context.Background(), domain.MediaKindMovie)

	// Duplicate names under different roots stay distinct entries.
	require.Len(t, got, 3)
	assert.Equal(t, DirEntry{Root: rootA, Name: "Alien (1979)"}, got[0])
	assert.Equal(t, rootB, got[1].Root)
}

func TestFindArtwork(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backdrop.png"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backdrop-thumb.jpg"), []byte("img"), 0o644))

	full, thumb := FindArtwork(dir, domain.ArtworkBackdrop)
	assert.Equal(t, "backdrop.png", full)
	assert.Equal(t, "backdrop-thumb.jpg", thumb)

	full, thumb = FindArtwork(dir, domain.ArtworkPoster)
	assert.Empty(t, full)
	assert.Empty(t, thumb)
}

func TestIsSystemFolder(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSystemFolder("@eaDir"))
	assert.True(t, IsSystemFolder("#RECYCLE"))
	assert.True(t, IsSystemFolder("System Volume Information"))
	assert.False(t, IsSystemFolder("The Office (2005)"))
}
