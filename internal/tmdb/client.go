// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package tmdb is the metadata-provider client. Responses are memoized in
// memory and requests are spaced out with a minimum interval so that a user
// paging through search results does not hammer the provider.
package tmdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/buildinfo"
	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/pkg/titles"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/original"

	requestTimeout = 10 * time.Second
	cacheTTL       = 15 * time.Minute
	cacheSweep     = 30 * time.Minute

	// minInterval is the spacing between outbound provider requests.
	defaultMinInterval = 300 * time.Millisecond
)

// SearchResult is one title from a provider search.
type SearchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	BackdropPath string `json:"backdrop_path,omitempty"`
	CleanID      string `json:"clean_id"`
}

// Image is one provider image. Language is the ISO 639-1 code, empty for
// textless images.
type Image struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Language string `json:"language,omitempty"`
}

// Client talks to the provider API.
type Client struct {
	http     *resty.Client
	apiKey   string
	language string
	cache    *gocache.Cache
	logger   zerolog.Logger

	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewClient creates a provider client. language is the preferred ISO 639-1
// code for localized artwork, e.g. "en".
func NewClient(apiKey, language string, logger zerolog.Logger) *Client {
	return &Client{
		http:        resty.New().SetBaseURL(defaultBaseURL).SetTimeout(requestTimeout).SetHeader("User-Agent", buildinfo.UserAgent),
		apiKey:      apiKey,
		language:    language,
		cache:       gocache.New(cacheTTL, cacheSweep),
		logger:      logger.With().Str("component", "tmdb").Logger(),
		minInterval: defaultMinInterval,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(u)
}

// throttle blocks until the minimum interval since the previous request has
// elapsed. Serializes all outbound requests.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.minInterval - time.Since(c.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

type searchPayload struct {
	Results []struct {
		ID           int    `json:"id"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
		PosterPath   string `json:"poster_path"`
		BackdropPath string `json:"backdrop_path"`
	} `json:"results"`
}

// Search queries the provider for a title. The query is cleaned of year and
// tag decorations first, so a raw directory name is an acceptable query.
func (c *Client) Search(ctx context.Context, media domain.MediaKind, query string) ([]SearchResult, error) {
	query = titles.StripYear(titles.StripTags(query))

	cacheKey := fmt.Sprintf("search/%s/%s", media, query)
	if hit, ok := c.cache.Get(cacheKey); ok {
		return hit.([]SearchResult), nil
	}

	endpoint := "/search/movie"
	if media == domain.MediaKindTV {
		endpoint = "/search/tv"
	}

	c.throttle()
	var payload searchPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("query", query).
		SetResult(&payload).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("provider search: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("provider search: unexpected status %s", resp.Status())
	}

	results := make([]SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		title := r.Title
		date := r.ReleaseDate
		if media == domain.MediaKindTV {
			title = r.Name
			date = r.FirstAirDate
		}
		year := ""
		if len(date) >= 4 {
			year = date[:4]
		}
		results = append(results, SearchResult{
			ID:           r.ID,
			Title:        title,
			Year:         year,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			CleanID:      titles.CleanID(title),
		})
	}

	c.cache.SetDefault(cacheKey, results)
	return results, nil
}

type imagesPayload struct {
	Backdrops []providerImage `json:"backdrops"`
	Posters   []providerImage `json:"posters"`
	Logos     []providerImage `json:"logos"`
}

type providerImage struct {
	FilePath string  `json:"file_path"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Language *string `json:"iso_639_1"`
}

// Images lists the provider images of one kind for a title, ordered by the
// kind's language policy first and pixel area second. An empty list is a
// valid answer meaning the provider has nothing usable, not an error.
func (c *Client) Images(ctx context.Context, media domain.MediaKind, id string, kind domain.ArtworkKind) ([]Image, error) {
	cacheKey := fmt.Sprintf("images/%s/%s/%s", media, id, kind)
	if hit, ok := c.cache.Get(cacheKey); ok {
		return hit.([]Image), nil
	}

	endpoint := fmt.Sprintf("/movie/%s/images", id)
	if media == domain.MediaKindTV {
		endpoint = fmt.Sprintf("/tv/%s/images", id)
	}

	c.throttle()
	var payload imagesPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&payload).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("provider images: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("provider images: unexpected status %s", resp.Status())
	}

	var raw []providerImage
	switch kind {
	case domain.ArtworkPoster:
		raw = payload.Posters
	case domain.ArtworkLogo:
		raw = payload.Logos
	default:
		raw = payload.Backdrops
	}

	images := make([]Image, 0, len(raw))
	for _, img := range raw {
		lang := ""
		if img.Language != nil {
			lang = *img.Language
		}
		images = append(images, Image{
			FilePath: img.FilePath,
			Width:    img.Width,
			Height:   img.Height,
			Language: lang,
		})
	}
	c.rank(images, domain.SpecFor(kind).Language)

	c.cache.SetDefault(cacheKey, images)
	return images, nil
}

// rank orders images by language preference, then by pixel area descending.
func (c *Client) rank(images []Image, policy domain.LanguagePolicy) {
	class := func(img Image) int {
		switch policy {
		case domain.PreferTextless:
			switch img.Language {
			case "":
				return 0
			case c.language:
				return 1
			}
		default:
			switch img.Language {
			case c.language:
				return 0
			case "":
				return 1
			}
		}
		return 2
	}

	sort.SliceStable(images, func(i, j int) bool {
		ci, cj := class(images[i]), class(images[j])
		if ci != cj {
			return ci < cj
		}
		return images[i].Width*images[i].Height > images[j].Width*images[j].Height
	})
}

// ImageURL resolves a provider file path to a full-resolution download URL.
func ImageURL(filePath string) string {
	return imageBaseURL + filePath
}
