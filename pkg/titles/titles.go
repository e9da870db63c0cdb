// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package titles provides pure string transforms for media titles: comparison
// keys, URL-safe identifiers, and sort keys. All functions are total over
// arbitrary input, including the empty string.
package titles

import (
	"regexp"
	"strings"
)

var (
	yearRe       = regexp.MustCompile(`\b(19|20|21|22|23)\d{2}\b`)
	braceTagRe   = regexp.MustCompile(`\s*\{[^}]*\}`)
	parenTagRe   = regexp.MustCompile(`\s*\([^)]*\)`)
	nonAlnumRun  = regexp.MustCompile(`[^a-z0-9]+`)
	providerIDRe = regexp.MustCompile(`\{(?:tmdb|tvdb|imdb)-([^}]+)\}`)
)

// Normalize reduces a title to its comparison key: lowercase with every
// character outside [a-z0-9] removed. Two titles are considered the same
// iff their normalized keys are equal.
func Normalize(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanID generates an HTML-anchor-safe, URL-safe identifier: lowercase with
// runs of non-alphanumeric characters collapsed to a single dash and leading
// and trailing dashes trimmed. Collisions are tolerated, not deduplicated.
func CleanID(title string) string {
	id := nonAlnumRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(id, "-")
}

// SortKey lowercases a title and strips a leading "The " article so that
// titles sort the way a human library would shelve them.
func SortKey(title string) string {
	key := strings.ToLower(title)
	if strings.HasPrefix(key, "the ") {
		return key[4:]
	}
	return key
}

// StripProviderTag removes provider id tags in curly braces, such as the
// "{tmdb-603}" suffix some library managers append to directory names.
func StripProviderTag(s string) string {
	return strings.TrimSpace(braceTagRe.ReplaceAllString(s, ""))
}

// ProviderID extracts the identifier from a provider tag, "603" out of
// "Name {tmdb-603}". Empty when the name carries no tag.
func ProviderID(s string) string {
	m := providerIDRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripTags removes both parenthesized segments (typically "(1999)") and
// curly-brace provider tags, leaving the bare title.
func StripTags(s string) string {
	s = parenTagRe.ReplaceAllString(s, "")
	return StripProviderTag(s)
}

// StripYear removes bare four-digit years (1900-2399) from a title.
func StripYear(s string) string {
	return strings.TrimSpace(yearRe.ReplaceAllString(s, ""))
}

// CompareKey is the key the match resolver uses for both provider titles and
// directory names: tags and year decorations removed, then normalized. This
// lets the title "Breaking Bad" line up with the directory
// "Breaking Bad (2008)" without fuzzy matching.
func CompareKey(name string) string {
	return Normalize(StripTags(name))
}
