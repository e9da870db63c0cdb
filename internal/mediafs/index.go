// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package mediafs lists and probes the on-disk media library. It is the only
// component that talks to the media roots directly, and it is deliberately
// forgiving: network filesystems (SMB mounts on NAS boxes) fail transiently,
// so listings retry with backoff and degrade to "currently unknown" instead
// of propagating errors.
package mediafs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

const (
	defaultListAttempts  = 8
	defaultListBaseDelay = 50 * time.Millisecond
)

// systemFolders are platform housekeeping directories that must never be
// treated as media. Matched case-insensitively.
var systemFolders = map[string]struct{}{
	"@eadir":                    {},
	"#recycle":                  {},
	"#snapshot":                 {},
	"$recycle.bin":              {},
	"system volume information": {},
	"lost+found":                {},
}

// IsSystemFolder reports whether name is a housekeeping folder.
func IsSystemFolder(name string) bool {
	_, ok := systemFolders[strings.ToLower(name)]
	return ok
}

// artworkExts is the on-disk artwork extension search order; first found wins.
var artworkExts = []string{"jpg", "jpeg", "png"}

// DirEntry is one media directory together with the root it was found under.
type DirEntry struct {
	Root string
	Name string
}

// Path returns the absolute path of the entry.
func (e DirEntry) Path() string {
	return filepath.Join(e.Root, e.Name)
}

// Index lists media directories per configured root.
type Index struct {
	cfg    *domain.Config
	logger zerolog.Logger

	// Retry tuning, overridable in tests to avoid real backoff sleeps.
	listAttempts  uint
	listBaseDelay time.Duration
}

// NewIndex creates an Index over the roots in cfg.
func NewIndex(cfg *domain.Config, logger zerolog.Logger) *Index {
	return &Index{
		cfg:           cfg,
		logger:        logger.With().Str("component", "mediafs").Logger(),
		listAttempts:  defaultListAttempts,
		listBaseDelay: defaultListBaseDelay,
	}
}

// Roots returns the ordered media roots for a kind.
func (ix *Index) Roots(kind domain.MediaKind) []string {
	return ix.cfg.RootsFor(kind)
}

// ListDirectories returns the immediate child directories of root, sorted by
// name, with housekeeping folders filtered out. Listing is retried with
// exponential backoff; after the final attempt fails the error is logged and
// an empty list is returned. Callers must treat an empty list as "currently
// unknown", not "definitely empty".
func (ix *Index) ListDirectories(ctx context.Context, root string) []string {
	var names []string

	err := retry.Do(
		func() error {
			entries, err := os.ReadDir(root)
			if err != nil {
				return err
			}
			names = names[:0]
			for _, entry := range entries {
				if !entry.IsDir() || IsSystemFolder(entry.Name()) {
					continue
				}
				names = append(names, entry.Name())
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(ix.listAttempts),
		retry.Delay(ix.listBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		ix.logger.Warn().Err(err).Str("root", root).Msg("directory listing failed, treating as unknown")
		return nil
	}

	return names
}

// AllDirectories lists every media directory for a kind across all of its
// roots. Results are concatenated in root order, never merged or deduplicated:
// the same directory name under two roots is two distinct entries.
func (ix *Index) AllDirectories(ctx context.Context, kind domain.MediaKind) []DirEntry {
	var entries []DirEntry
	for _, root := range ix.Roots(kind) {
		for _, name := range ix.ListDirectories(ctx, root) {
			entries = append(entries, DirEntry{Root: root, Name: name})
		}
	}
	return entries
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModTime returns the modification time of path. The second return is false
// when the time is unavailable, which SMB mounts sometimes are.
func ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// FindArtwork probes dir for the conventional artwork files of a kind,
// "{kind}.{ext}" and "{kind}-thumb.{ext}" with ext in {jpg, jpeg, png},
// first found wins. Either name is empty when nothing was found.
func FindArtwork(dir string, kind domain.ArtworkKind) (full, thumb string) {
	for _, ext := range artworkExts {
		name := string(kind) + "." + ext
		if full == "" && Exists(filepath.Join(dir, name)) {
			full = name
		}
		thumbName := string(kind) + "-thumb." + ext
		if thumb == "" && Exists(filepath.Join(dir, thumbName)) {
			thumb = thumbName
		}
		if full != "" && thumb != "" {
			break
		}
	}
	return full, thumb
}
