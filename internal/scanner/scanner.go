// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package scanner builds the library view: one MediaItem per media directory,
// with artwork presence, serving URLs, image dimensions, and unavailability
// flags. A scan touches every directory of every root and is therefore the
// slowest operation in the system; Library layers the snapshot cache on top so
// callers choose explicitly between the cached view and a fresh walk.
package scanner

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/artcache"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/mediafs"
	"github.com/anthonysnyder/backgroundarr/internal/scancache"
	"github.com/anthonysnyder/backgroundarr/internal/store"
	"github.com/anthonysnyder/backgroundarr/pkg/titles"
)

// Scanner walks the media roots and produces library items.
type Scanner struct {
	index  *mediafs.Index
	thumbs *artcache.Cache
	unav   *store.UnavailabilityStore
	logger zerolog.Logger
}

// NewScanner creates a scanner. Found thumbnails are mirrored into thumbs as
// a side effect of scanning, so the UI never loads thumbnails off the media
// roots.
func NewScanner(index *mediafs.Index, thumbs *artcache.Cache, unav *store.UnavailabilityStore, logger zerolog.Logger) *Scanner {
	return &Scanner{
		index:  index,
		thumbs: thumbs,
		unav:   unav,
		logger: logger.With().Str("component", "scanner").Logger(),
	}
}

// Scan builds one MediaItem per directory across all roots for the media
// kind, inspecting artwork of the given kind. Items are sorted by title with
// the leading article dropped. Unreachable roots contribute nothing; the scan
// never fails outright.
func (s *Scanner) Scan(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) ([]domain.MediaItem, int) {
	var items []domain.MediaItem
	for _, entry := range s.index.AllDirectories(ctx, media) {
		items = append(items, s.buildItem(entry, art))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return titles.SortKey(items[i].Title) < titles.SortKey(items[j].Title)
	})

	s.logger.Debug().
		Str("media", string(media)).
		Str("artwork", string(art)).
		Int("items", len(items)).
		Msg("library scan complete")
	return items, len(items)
}

func (s *Scanner) buildItem(entry mediafs.DirEntry, art domain.ArtworkKind) domain.MediaItem {
	item := domain.MediaItem{
		Title:         strings.TrimSpace(titles.StripProviderTag(entry.Name)),
		DirectoryName: entry.Name,
		BaseFolder:    entry.Root,
		CleanID:       titles.CleanID(titles.StripYear(titles.StripTags(entry.Name))),
		ExternalID:    titles.ProviderID(entry.Name),
		Artwork:       make(map[domain.ArtworkKind]domain.ArtworkInfo),
	}

	item.Artwork[art] = s.inspectArtwork(entry, art)

	if s.unav != nil && s.unav.IsUnavailable(entry.Name, art) {
		item.Unavailable = map[domain.ArtworkKind]bool{art: true}
	}
	return item
}

// inspectArtwork probes one directory for the artwork files of a kind and
// mirrors the thumbnail locally when present.
func (s *Scanner) inspectArtwork(entry mediafs.DirEntry, art domain.ArtworkKind) domain.ArtworkInfo {
	dir := entry.Path()
	full, thumb := mediafs.FindArtwork(dir, art)
	if full == "" && thumb == "" {
		return domain.ArtworkInfo{Present: false}
	}

	info := domain.ArtworkInfo{Present: full != ""}
	if full != "" {
		fullPath := filepath.Join(dir, full)
		info.URL = MediaURL(entry.Name, full)
		info.Dimensions = imageDimensions(fullPath)
		if mtime, ok := mediafs.ModTime(fullPath); ok {
			info.Modified = mtime.Format("2006-01-02")
		}
	}
	if thumb != "" {
		s.thumbs.Ensure(filepath.Join(dir, thumb), entry.Name, thumb)
		info.ThumbURL = s.thumbs.URLFor(entry.Name, thumb)
	}
	return info
}

// MediaURL returns the serving path for a full-resolution artwork file.
func MediaURL(dirName, filename string) string {
	return "/media/" + url.PathEscape(dirName) + "/" + url.PathEscape(filename)
}

// imageDimensions reads just the image header. Undecodable or unreadable
// files report "Unknown" rather than failing the scan.
func imageDimensions(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "Unknown"
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "Unknown"
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
}

// Library is the two-tier accessor over scans: Cached serves the memoized
// snapshot and only scans on a miss, Rescan always walks the filesystem.
type Library struct {
	scanner *Scanner
	cache   *scancache.Store
	logger  zerolog.Logger
}

// NewLibrary wires a scanner to its snapshot cache.
func NewLibrary(scanner *Scanner, cache *scancache.Store, logger zerolog.Logger) *Library {
	return &Library{
		scanner: scanner,
		cache:   cache,
		logger:  logger.With().Str("component", "library").Logger(),
	}
}

// Cached returns the snapshot for a (media kind, artwork kind) pair, scanning
// read-through on a cache miss.
func (l *Library) Cached(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) *scancache.Snapshot {
	if snap, ok := l.cache.Read(media, art); ok {
		return snap
	}
	return l.scan(ctx, media, art)
}

// Rescan drops the snapshot and the local thumbnail mirror, then walks the
// filesystem again. Used by the explicit refresh endpoint.
func (l *Library) Rescan(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) *scancache.Snapshot {
	l.cache.Invalidate(media, art)
	return l.scan(ctx, media, art)
}

func (l *Library) scan(ctx context.Context, media domain.MediaKind, art domain.ArtworkKind) *scancache.Snapshot {
	items, total := l.scanner.Scan(ctx, media, art)
	if err := l.cache.Write(media, art, items); err != nil {
		l.logger.Warn().Err(err).Msg("failed to persist scan snapshot")
	}
	// Serve the in-memory result even if persisting it failed.
	snap, ok := l.cache.Read(media, art)
	if !ok {
		return &scancache.Snapshot{MediaList: items, Total: total}
	}
	return snap
}
