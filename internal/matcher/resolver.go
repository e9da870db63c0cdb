// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package matcher reconciles a metadata-provider title with an on-disk media
// directory. Resolution tries increasingly expensive strategies and stops at
// the first hit: a directory hint from the UI, the persisted id mapping, a
// normalized exact match, then fuzzy similarity. When nothing clears the
// similarity threshold the caller gets a short disambiguation list and the
// user picks; that pick is then accepted unconditionally.
package matcher

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/anthonysnyder/backgroundarr/internal/domain"
	"github.com/anthonysnyder/backgroundarr/internal/mediafs"
	"github.com/anthonysnyder/backgroundarr/internal/store"
	"github.com/anthonysnyder/backgroundarr/pkg/similarity"
	"github.com/anthonysnyder/backgroundarr/pkg/titles"
)

const (
	// maxCandidates caps the disambiguation list shown to the user.
	maxCandidates = 5
	// candidateCutoff is the minimum similarity for a disambiguation entry.
	candidateCutoff = 0.5
)

// Method records which strategy produced a resolution.
type Method string

const (
	MethodHint    Method = "hint"
	MethodMapping Method = "mapping"
	MethodExact   Method = "exact"
	MethodFuzzy   Method = "fuzzy"
	MethodManual  Method = "manual"
)

// Request describes one resolution attempt.
type Request struct {
	Title         string
	ExternalID    string
	MediaKind     domain.MediaKind
	DirectoryHint string
}

// Result is a successful resolution.
type Result struct {
	Directory string // directory name
	Root      string // media root it lives under
	Path      string // absolute path
	Method    Method
	Score     float64 // similarity, fuzzy matches only
}

// NeedsSelectionError is returned when no directory can be accepted
// automatically. Candidates holds up to five directory names ordered by
// closeness for the caller to present; it may be empty.
type NeedsSelectionError struct {
	Candidates []string
}

func (e *NeedsSelectionError) Error() string {
	return "no directory matched, selection required"
}

// NotFoundError is returned by Confirm when the selected directory does not
// exist under any root.
type NotFoundError struct {
	Directory string
}

func (e *NotFoundError) Error() string {
	return "directory not found: " + e.Directory
}

// Resolver finds the on-disk directory for a title.
type Resolver struct {
	index     *mediafs.Index
	mappings  *store.MappingStore
	threshold float64
	logger    zerolog.Logger
}

// NewResolver creates a resolver. threshold is the minimum similarity ratio
// for an automatic fuzzy match; values at or below zero fall back to the
// default.
func NewResolver(index *mediafs.Index, mappings *store.MappingStore, threshold float64, logger zerolog.Logger) *Resolver {
	if threshold <= 0 {
		threshold = domain.DefaultMatchThreshold
	}
	return &Resolver{
		index:     index,
		mappings:  mappings,
		threshold: threshold,
		logger:    logger.With().Str("component", "matcher").Logger(),
	}
}

// Resolve runs the resolution strategies in order and returns the first
// accepted directory. Every accepted match with a known external id is
// recorded in the mapping store, so later requests for the same id resolve
// from the mapping without any directory scanning. The only side effect is
// that mapping write; the filesystem is never mutated here.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	// A hint names a directory the UI was already showing; trust it, but
	// only as a single segment that cannot climb out of a root.
	if safeDirectoryName(req.DirectoryHint) {
		for _, root := range r.index.Roots(req.MediaKind) {
			if mediafs.Exists(filepath.Join(root, req.DirectoryHint)) {
				return r.accept(req, &Result{
					Directory: req.DirectoryHint,
					Root:      root,
					Path:      filepath.Join(root, req.DirectoryHint),
					Method:    MethodHint,
				}), nil
			}
		}
	}

	if req.ExternalID != "" {
		if path, ok := r.mappings.Get(req.MediaKind, req.ExternalID); ok {
			return &Result{
				Directory: filepath.Base(path),
				Root:      filepath.Dir(path),
				Path:      path,
				Method:    MethodMapping,
			}, nil
		}
	}

	entries := r.index.AllDirectories(ctx, req.MediaKind)
	target := titles.CompareKey(req.Title)
	if target == "" {
		return nil, &NeedsSelectionError{}
	}

	for _, entry := range entries {
		if titles.CompareKey(entry.Name) == target {
			return r.accept(req, &Result{
				Directory: entry.Name,
				Root:      entry.Root,
				Path:      entry.Path(),
				Method:    MethodExact,
			}), nil
		}
	}

	var best *Result
	for _, entry := range entries {
		score := similarity.Ratio(target, titles.CompareKey(entry.Name))
		if best == nil || score > best.Score {
			best = &Result{
				Directory: entry.Name,
				Root:      entry.Root,
				Path:      entry.Path(),
				Method:    MethodFuzzy,
				Score:     score,
			}
		}
	}
	if best != nil && best.Score >= r.threshold {
		r.logger.Debug().
			Str("title", req.Title).
			Str("directory", best.Directory).
			Float64("score", best.Score).
			Msg("fuzzy match accepted")
		return r.accept(req, best), nil
	}

	return nil, &NeedsSelectionError{Candidates: r.candidates(target, entries)}
}

// Confirm accepts an explicit user selection unconditionally, locating it
// under the roots and recording the mapping.
func (r *Resolver) Confirm(ctx context.Context, req Request, selectedDirectory string) (*Result, error) {
	if !safeDirectoryName(selectedDirectory) {
		return nil, &NotFoundError{Directory: selectedDirectory}
	}
	for _, root := range r.index.Roots(req.MediaKind) {
		path := filepath.Join(root, selectedDirectory)
		if mediafs.Exists(path) {
			return r.accept(req, &Result{
				Directory: selectedDirectory,
				Root:      root,
				Path:      path,
				Method:    MethodManual,
			}), nil
		}
	}
	return nil, &NotFoundError{Directory: selectedDirectory}
}

// accept records the mapping when the external id is known. A failed write
// is logged but never fails the resolution: the match itself stands and the
// next request simply re-resolves.
func (r *Resolver) accept(req Request, res *Result) *Result {
	if req.ExternalID != "" {
		if err := r.mappings.Set(req.MediaKind, req.ExternalID, res.Path); err != nil {
			r.logger.Error().Err(err).
				Str("externalId", req.ExternalID).
				Str("path", res.Path).
				Msg("failed to persist directory mapping")
		}
	}
	return res
}

// candidates ranks every known directory name against the target key. Names
// that normalize to the same key stay separate entries, so directories that
// differ only in a parenthesized qualifier each keep their own slot.
func (r *Resolver) candidates(target string, entries []mediafs.DirEntry) []string {
	type ranked struct {
		name  string
		score float64
	}
	seen := make(map[string]struct{}, len(entries))
	all := make([]ranked, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Name]; dup {
			continue
		}
		seen[entry.Name] = struct{}{}
		all = append(all, ranked{entry.Name, similarity.Ratio(target, titles.CompareKey(entry.Name))})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	out := make([]string, 0, maxCandidates)
	for _, c := range all {
		if c.score < candidateCutoff {
			break
		}
		out = append(out, c.name)
		if len(out) == maxCandidates {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}

	// Nothing cleared the cutoff; show the closest few anyway.
	for _, c := range all {
		out = append(out, c.name)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

// safeDirectoryName reports whether name is a single path segment that can
// be joined onto a media root without escaping it.
func safeDirectoryName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}
