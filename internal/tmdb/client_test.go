// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "en", zerolog.Nop())
	c.SetBaseURL(srv.URL)
	c.minInterval = 0
	return c, srv
}

func TestSearchCleansQueryAndParsesResults(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/movie", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		gotQuery.Store(r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":603,"title":"The Matrix","release_date":"1999-03-30","poster_path":"/p.jpg","backdrop_path":"/b.jpg"},
			{"id":604,"title":"The Matrix Reloaded","release_date":""}
		]}`))
	}))

	results, err := c.Search(context.Background(), domain.MediaKindMovie, "The Matrix (1999) {tmdb-603}")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "The Matrix", gotQuery.Load())
	assert.Equal(t, 603, results[0].ID)
	assert.Equal(t, "The Matrix", results[0].Title)
	assert.Equal(t, "1999", results[0].Year)
	assert.Equal(t, "/p.jpg", results[0].PosterPath)
	assert.Equal(t, "the-matrix", results[0].CleanID)
	assert.Empty(t, results[1].Year)
}

func TestSearchTVUsesNameFields(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/tv", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20"}]}`))
	}))

	results, err := c.Search(context.Background(), domain.MediaKindTV, "Breaking Bad")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Breaking Bad", results[0].Title)
	assert.Equal(t, "2008", results[0].Year)
}

func TestSearchMemoizesResponses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), domain.MediaKindMovie, "Alien")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), calls.Load())

	// A different media kind is a different cache entry.
	_, err := c.Search(context.Background(), domain.MediaKindTV, "Alien")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRequestsIdentifyThemselves(t *testing.T) {
	t.Parallel()

	var gotUA atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	_, err := c.Search(context.Background(), domain.MediaKindMovie, "Alien")
	require.NoError(t, err)
	assert.Contains(t, gotUA.Load(), "backgroundarr/")
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Search(context.Background(), domain.MediaKindMovie, "Alien")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

const imagesBody = `{
	"backdrops":[
		{"file_path":"/small-textless.jpg","width":1280,"height":720,"iso_639_1":null},
		{"file_path":"/big-en.jpg","width":3840,"height":2160,"iso_639_1":"en"},
		{"file_path":"/big-textless.jpg","width":1920,"height":1080,"iso_639_1":null},
		{"file_path":"/fr.jpg","width":1920,"height":1080,"iso_639_1":"fr"}
	],
	"posters":[
		{"file_path":"/poster-en.jpg","width":1000,"height":1500,"iso_639_1":"en"},
		{"file_path":"/poster-textless.jpg","width":2000,"height":3000,"iso_639_1":null}
	],
	"logos":[]
}`

func TestImagesBackdropPrefersTextless(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/603/images", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(imagesBody))
	}))

	images, err := c.Images(context.Background(), domain.MediaKindMovie, "603", domain.ArtworkBackdrop)
	require.NoError(t, err)
	require.Len(t, images, 4)

	// Textless first (largest area leading), then the configured language,
	// then everything else.
	assert.Equal(t, "/big-textless.jpg", images[0].FilePath)
	assert.Equal(t, "/small-textless.jpg", images[1].FilePath)
	assert.Equal(t, "/big-en.jpg", images[2].FilePath)
	assert.Equal(t, "/fr.jpg", images[3].FilePath)
}

func TestImagesPosterPrefersConfiguredLanguage(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(imagesBody))
	}))

	images, err := c.Images(context.Background(), domain.MediaKindMovie, "603", domain.ArtworkPoster)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "/poster-en.jpg", images[0].FilePath)
	assert.Equal(t, "/poster-textless.jpg", images[1].FilePath)
}

func TestImagesEmptyListIsNotAnError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tv/1396/images", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(imagesBody))
	}))

	images, err := c.Images(context.Background(), domain.MediaKindTV, "1396", domain.ArtworkLogo)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", ImageURL("/abc.jpg"))
}
