// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultMatchThreshold is the minimum similarity ratio for an automatic
// fuzzy directory match. Earlier deployments ran 0.8 and produced false
// positives between similarly named titles; 0.9 trades a few more manual
// confirmations for far fewer wrong directories.
const DefaultMatchThreshold = 0.9

// Config represents the application configuration
type Config struct {
	Version       string
	Host          string `toml:"host" mapstructure:"host"`
	Port          int    `toml:"port" mapstructure:"port"`
	BaseURL       string `toml:"baseUrl" mapstructure:"baseUrl"`
	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`
	DataDir       string `toml:"dataDir" mapstructure:"dataDir"`

	// MovieFolders and TVFolders are the ordered media root directories.
	// Multiple roots per kind are scanned independently and concatenated.
	MovieFolders []string `toml:"movieFolders" mapstructure:"movieFolders"`
	TVFolders    []string `toml:"tvFolders" mapstructure:"tvFolders"`

	TMDBAPIKey      string `toml:"tmdbApiKey" mapstructure:"tmdbApiKey"`
	TMDBLanguage    string `toml:"tmdbLanguage" mapstructure:"tmdbLanguage"`
	SlackWebhookURL string `toml:"slackWebhookUrl" mapstructure:"slackWebhookUrl"`

	// MatchThreshold is the minimum similarity ratio (0..1) for accepting a
	// fuzzy directory match without user confirmation.
	MatchThreshold float64 `toml:"matchThreshold" mapstructure:"matchThreshold"`
}

// RootsFor returns the ordered media roots for a media kind.
func (c *Config) RootsFor(kind MediaKind) []string {
	switch kind {
	case MediaKindTV:
		return c.TVFolders
	default:
		return c.MovieFolders
	}
}

// AllRoots returns every configured media root, movies first. Used when
// serving artwork files, which are looked up across both kinds.
func (c *Config) AllRoots() []string {
	roots := make([]string, 0, len(c.MovieFolders)+len(c.TVFolders))
	roots = append(roots, c.MovieFolders...)
	roots = append(roots, c.TVFolders...)
	return roots
}

// CacheDir returns the directory holding mirrored thumbnails.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "thumbs")
}

// ScanCacheDir returns the directory holding library scan snapshots.
func (c *Config) ScanCacheDir() string {
	return filepath.Join(c.DataDir, "scans")
}

// MappingFile returns the path of the persisted directory-mapping store.
func (c *Config) MappingFile() string {
	return filepath.Join(c.DataDir, "directory_mappings.json")
}

// UnavailabilityFile returns the path of the persisted unavailability store.
func (c *Config) UnavailabilityFile() string {
	return filepath.Join(c.DataDir, "unavailable.json")
}

// Validate checks that the configuration is usable for serving.
func (c *Config) Validate() error {
	if len(c.MovieFolders) == 0 && len(c.TVFolders) == 0 {
		return errors.New("at least one of movieFolders or tvFolders must be configured")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("dataDir must be configured")
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return errors.New("matchThreshold must be between 0 and 1")
	}
	return nil
}
