// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "fmt"

// ArtworkKind is a category of image associated with a media item.
type ArtworkKind string

const (
	ArtworkPoster   ArtworkKind = "poster"
	ArtworkLogo     ArtworkKind = "logo"
	ArtworkBackdrop ArtworkKind = "backdrop"
)

// ParseArtworkKind validates a user-supplied artwork kind string.
func ParseArtworkKind(s string) (ArtworkKind, error) {
	switch ArtworkKind(s) {
	case ArtworkPoster, ArtworkLogo, ArtworkBackdrop:
		return ArtworkKind(s), nil
	}
	return "", fmt.Errorf("unknown artwork kind %q", s)
}

// LanguagePolicy selects which provider images to prefer for a kind.
type LanguagePolicy int

const (
	// PreferLanguage ranks images in the configured language first.
	PreferLanguage LanguagePolicy = iota
	// PreferTextless ranks images without any language first. Used for
	// backdrops, where burned-in titles are usually unwanted.
	PreferTextless
)

// ArtworkSpec carries the per-kind handling parameters: preferred thumbnail
// encoding, thumbnail target size, crop aspect ratio, and language policy.
type ArtworkSpec struct {
	Kind        ArtworkKind
	ThumbExt    string
	ThumbWidth  int
	ThumbHeight int // 0 keeps the source aspect ratio
	AspectW     int
	AspectH     int // 0 disables cropping
	Language    LanguagePolicy
}

var artworkSpecs = map[ArtworkKind]ArtworkSpec{
	ArtworkPoster: {
		Kind:        ArtworkPoster,
		ThumbExt:    "jpg",
		ThumbWidth:  200,
		ThumbHeight: 300,
		AspectW:     2,
		AspectH:     3,
		Language:    PreferLanguage,
	},
	ArtworkBackdrop: {
		Kind:        ArtworkBackdrop,
		ThumbExt:    "jpg",
		ThumbWidth:  300,
		ThumbHeight: 169,
		AspectW:     16,
		AspectH:     9,
		Language:    PreferTextless,
	},
	ArtworkLogo: {
		Kind:     ArtworkLogo,
		ThumbExt: "png",
		// Logos keep their native aspect ratio and are only bounded in width.
		ThumbWidth: 300,
		Language:   PreferLanguage,
	},
}

// SpecFor returns the handling parameters for an artwork kind.
func SpecFor(kind ArtworkKind) ArtworkSpec {
	return artworkSpecs[kind]
}

// FileName returns the conventional on-disk file name for the full image,
// e.g. "backdrop.jpg".
func (s ArtworkSpec) FileName(ext string) string {
	return fmt.Sprintf("%s.%s", s.Kind, ext)
}

// ThumbFileName returns the conventional on-disk file name for the thumbnail,
// e.g. "backdrop-thumb.jpg".
func (s ArtworkSpec) ThumbFileName() string {
	return fmt.Sprintf("%s-thumb.%s", s.Kind, s.ThumbExt)
}
