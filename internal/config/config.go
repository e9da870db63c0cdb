// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads the application configuration from config.toml with
// environment overrides, generating a commented default file on first run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

// envPrefix is the double-underscore environment namespace, e.g.
// BACKGROUNDARR__TMDB_API_KEY.
const envPrefix = "BACKGROUNDARR__"

// envBindings maps config keys to their environment variables. The bare
// legacy names (second entry) predate the prefixed scheme and are still
// honored.
var envBindings = map[string][]string{
	"host":            {envPrefix + "HOST"},
	"port":            {envPrefix + "PORT"},
	"baseUrl":         {envPrefix + "BASE_URL"},
	"logLevel":        {envPrefix + "LOG_LEVEL"},
	"logPath":         {envPrefix + "LOG_PATH"},
	"logMaxSize":      {envPrefix + "LOG_MAX_SIZE"},
	"logMaxBackups":   {envPrefix + "LOG_MAX_BACKUPS"},
	"dataDir":         {envPrefix + "DATA_DIR"},
	"movieFolders":    {envPrefix + "MOVIE_FOLDERS", "MOVIE_FOLDERS"},
	"tvFolders":       {envPrefix + "TV_FOLDERS", "TV_FOLDERS"},
	"tmdbApiKey":      {envPrefix + "TMDB_API_KEY", "TMDB_API_KEY"},
	"tmdbLanguage":    {envPrefix + "TMDB_LANGUAGE"},
	"slackWebhookUrl": {envPrefix + "SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL"},
	"matchThreshold":  {envPrefix + "MATCH_THRESHOLD"},
}

// AppConfig owns the viper instance and the parsed configuration.
type AppConfig struct {
	Config *domain.Config

	viper     *viper.Viper
	configDir string
}

// New loads the configuration. configDir selects where config.toml lives;
// empty means the OS config dir ("backgroundarr" subdirectory). A missing
// config file is generated with commented defaults rather than treated as an
// error.
func New(configDir, version string) (*AppConfig, error) {
	c := &AppConfig{viper: viper.New()}

	if err := c.resolveConfigDir(configDir); err != nil {
		return nil, err
	}
	c.setDefaults()

	c.viper.SetConfigName("config")
	c.viper.SetConfigType("toml")
	c.viper.AddConfigPath(c.configDir)

	for key, envs := range envBindings {
		keys := append([]string{key}, envs...)
		if err := c.viper.BindEnv(keys...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := c.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := c.writeDefaultConfig(); err != nil {
			return nil, err
		}
	}

	c.Config = c.parse(version)
	return c, nil
}

func (c *AppConfig) resolveConfigDir(configDir string) error {
	if configDir != "" {
		c.configDir = configDir
		return nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	c.configDir = filepath.Join(base, "backgroundarr")
	return nil
}

func (c *AppConfig) setDefaults() {
	c.viper.SetDefault("host", "0.0.0.0")
	c.viper.SetDefault("port", 5000)
	c.viper.SetDefault("baseUrl", "/")
	c.viper.SetDefault("logLevel", "INFO")
	c.viper.SetDefault("logMaxSize", 50)
	c.viper.SetDefault("logMaxBackups", 3)
	c.viper.SetDefault("dataDir", filepath.Join(c.configDir, "data"))
	c.viper.SetDefault("tmdbLanguage", "en")
	c.viper.SetDefault("matchThreshold", domain.DefaultMatchThreshold)
}

// parse materializes the explicit Config value handed around the
// application. Reading key by key instead of Unmarshal keeps the
// comma-separated folder lists from env vars working.
func (c *AppConfig) parse(version string) *domain.Config {
	return &domain.Config{
		Version:         version,
		Host:            c.viper.GetString("host"),
		Port:            c.viper.GetInt("port"),
		BaseURL:         c.viper.GetString("baseUrl"),
		LogLevel:        c.viper.GetString("logLevel"),
		LogPath:         c.viper.GetString("logPath"),
		LogMaxSize:      c.viper.GetInt("logMaxSize"),
		LogMaxBackups:   c.viper.GetInt("logMaxBackups"),
		DataDir:         c.viper.GetString("dataDir"),
		MovieFolders:    c.folderList("movieFolders"),
		TVFolders:       c.folderList("tvFolders"),
		TMDBAPIKey:      c.viper.GetString("tmdbApiKey"),
		TMDBLanguage:    c.viper.GetString("tmdbLanguage"),
		SlackWebhookURL: c.viper.GetString("slackWebhookUrl"),
		MatchThreshold:  c.viper.GetFloat64("matchThreshold"),
	}
}

// folderList reads a root list that may come from toml (a real array) or
// from an environment variable (a comma-separated string).
func (c *AppConfig) folderList(key string) []string {
	var raw []string
	switch v := c.viper.Get(key).(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	default:
		raw = c.viper.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

const defaultConfigTemplate = `# backgroundarr configuration
# Values here can be overridden with BACKGROUNDARR__ environment variables,
# e.g. BACKGROUNDARR__TMDB_API_KEY.

# Address and port the web UI listens on.
host = "0.0.0.0"
port = 5000

# Base URL when served behind a reverse proxy subfolder, e.g. "/backgroundarr/".
#baseUrl = "/"

# Log level: ERROR, WARN, INFO, DEBUG, TRACE.
logLevel = "INFO"

# Optional log file with rotation. Logs to stderr only when unset.
#logPath = "log/backgroundarr.log"
#logMaxSize = 50
#logMaxBackups = 3

# Media root directories. Multiple roots per kind are allowed.
movieFolders = []
tvFolders = []

# TMDb API key, required for searching and downloading artwork.
tmdbApiKey = ""
tmdbLanguage = "en"

# Optional Slack incoming-webhook URL for download notifications.
#slackWebhookUrl = ""

# Minimum similarity (0..1) for accepting a directory match automatically.
matchThreshold = 0.9
`

func (c *AppConfig) writeDefaultConfig() error {
	if err := os.MkdirAll(c.configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(c.configDir, "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// ConfigDir returns the directory the config file lives in.
func (c *AppConfig) ConfigDir() string {
	return c.configDir
}
