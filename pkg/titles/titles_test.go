// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package titles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "The Matrix", "thematrix"},
		{"punctuation", "WALL-E", "walle"},
		{"mixed case and spacing", "  Blade   RUNNER ", "bladerunner"},
		{"digits kept", "2001: A Space Odyssey", "2001aspaceodyssey"},
		{"unicode stripped", "Amélie", "amlie"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

// Titles that differ only by case, punctuation, or whitespace must share a key.
func TestNormalizeEquivalence(t *testing.T) {
	t.Parallel()

	groups := [][]string{
		{"Breaking Bad", "breaking bad", "BREAKING.BAD", "Breaking-Bad", " breaking  bad "},
		{"M*A*S*H", "mash", "M.A.S.H."},
		{"Se7en", "se7en", "SE7EN"},
	}

	for _, group := range groups {
		want := Normalize(group[0])
		for _, title := range group[1:] {
			assert.Equal(t, want, Normalize(title), "title %q", title)
		}
	}
}

func TestCleanID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix (1999)", "the-matrix-1999"},
		{"WALL·E", "wall-e"},
		{"  --weird--  input--  ", "weird-input"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range tests {
		got := CleanID(tc.input)
		assert.Equal(t, tc.want, got)
		assert.False(t, strings.HasPrefix(got, "-"), "leading dash in %q", got)
		assert.False(t, strings.HasSuffix(got, "-"), "trailing dash in %q", got)
		assert.NotContains(t, got, "--", "consecutive dashes in %q", got)
	}
}

func TestSortKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "matrix", SortKey("The Matrix"))
	assert.Equal(t, "matrix", SortKey("the matrix"))
	assert.Equal(t, "theodore", SortKey("Theodore"))
	assert.Equal(t, "them!", SortKey("Them!"))
	assert.Equal(t, "", SortKey(""))
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The Matrix", StripTags("The Matrix (1999)"))
	assert.Equal(t, "The Matrix", StripTags("The Matrix (1999) {tmdb-603}"))
	assert.Equal(t, "Breaking Bad", StripProviderTag("Breaking Bad {tmdb-1396}"))
	assert.Equal(t, "Breaking Bad (2008)", StripProviderTag("Breaking Bad (2008)"))
}

func TestProviderID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "603", ProviderID("The Matrix (1999) {tmdb-603}"))
	assert.Equal(t, "tt0133093", ProviderID("The Matrix {imdb-tt0133093}"))
	assert.Equal(t, "", ProviderID("The Matrix (1999)"))
	assert.Equal(t, "", ProviderID(""))
}

func TestStripYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The Matrix", StripYear("The Matrix 1999"))
	// 2049 parses as a year and is stripped too; acceptable for ids.
	assert.Equal(t, "Blade Runner", StripYear("Blade Runner 2049"))
	assert.Equal(t, "no year here", StripYear("no year here"))
}

func TestCompareKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CompareKey("Breaking Bad"), CompareKey("Breaking Bad (2008)"))
	assert.Equal(t, CompareKey("The Matrix"), CompareKey("The Matrix (1999) {tmdb-603}"))
	assert.NotEqual(t, CompareKey("Breaking Bad"), CompareKey("Better Call Saul"))
}
