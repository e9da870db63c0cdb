// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package artcache mirrors artwork thumbnails from the (slow, usually
// network-mounted) media roots onto local storage. Thumbnails are addressed
// purely by a hash of the source directory name plus the artwork file name,
// so any process can reconstruct a cache path in O(1) without a lookup table.
// Only thumbnails live here; full-resolution artwork is always served from
// the media root.
package artcache

import (
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// Cache is a local mirror of artwork thumbnails.
type Cache struct {
	dir    string
	logger zerolog.Logger

	// copies counts actual file writes, observable in tests.
	copies atomic.Int64
}

// New creates a cache rooted at dir.
func New(dir string, logger zerolog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		logger: logger.With().Str("component", "artcache").Logger(),
	}
}

// Bucket returns the cache bucket for a media directory name.
func Bucket(dirName string) string {
	return strconv.FormatUint(xxhash.Sum64String(dirName), 16)
}

// PathFor returns the local cache path for a thumbnail, whether or not it
// has been mirrored yet.
func (c *Cache) PathFor(dirName, filename string) string {
	return filepath.Join(c.dir, Bucket(dirName), filename)
}

// URLFor returns the serving path for a mirrored thumbnail.
func (c *Cache) URLFor(dirName, filename string) string {
	return "/cache/" + Bucket(dirName) + "/" + filename
}

// Ensure mirrors a thumbnail into the cache and reports whether a copy was
// written. The copy is skipped when a local copy exists and the source is
// not strictly newer. When the source mtime cannot be read (SMB mounts
// sometimes fail this silently) an existing local copy is kept as-is.
// All I/O failures are swallowed and reported as "not updated"; the caller
// proceeds with whatever was previously cached.
func (c *Cache) Ensure(sourcePath, dirName, filename string) bool {
	dest := c.PathFor(dirName, filename)

	srcInfo, srcErr := os.Stat(sourcePath)
	if destInfo, err := os.Stat(dest); err == nil {
		if srcErr != nil {
			// Source mtime unavailable; keep the existing copy.
			return false
		}
		if !srcInfo.ModTime().After(destInfo.ModTime()) {
			return false
		}
	} else if srcErr != nil {
		c.logger.Debug().Err(srcErr).Str("source", sourcePath).Msg("thumbnail source unreadable")
		return false
	}

	// Full read-then-write rather than a metadata-preserving copy: network
	// filesystems often reject metadata mutation on foreign files.
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		c.logger.Debug().Err(err).Str("source", sourcePath).Msg("thumbnail read failed")
		return false
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		c.logger.Debug().Err(err).Str("dest", dest).Msg("cache bucket create failed")
		return false
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		c.logger.Debug().Err(err).Str("dest", dest).Msg("thumbnail write failed")
		return false
	}

	c.copies.Add(1)
	return true
}

// Clear removes the entire local thumbnail cache. The cache is derived
// state: the media roots remain the source of truth, so this is always safe.
func (c *Cache) Clear() {
	if err := os.RemoveAll(c.dir); err != nil {
		c.logger.Warn().Err(err).Str("dir", c.dir).Msg("failed to clear thumbnail cache")
	}
}

// Dir returns the cache root, for wiring the file server.
func (c *Cache) Dir() string {
	return c.dir
}

// Copies returns the number of file writes performed so far.
func (c *Cache) Copies() int64 {
	return c.copies.Load()
}
