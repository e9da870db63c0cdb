// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package similarity scores how closely two strings align using the classic
// longest-matching-blocks ratio: the strings are recursively decomposed
// around their longest common substring and the ratio is 2*M/T, where M is
// the total length of all matched blocks and T the combined input length.
// The score is 1.0 for identical strings and 0.0 for fully disjoint ones.
package similarity

import "sort"

// Ratio returns the matching-blocks similarity of a and b in [0, 1].
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchedLength(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// Match pairs a candidate string with its similarity to a target.
type Match struct {
	Value string
	Score float64
}

// TopMatches ranks candidates by similarity to target, strongest first, and
// returns at most n of them. Candidates scoring below cutoff are dropped,
// except that when nothing clears the cutoff the best n are returned anyway
// so a caller building a disambiguation list always has something to show.
func TopMatches(target string, candidates []string, n int, cutoff float64) []Match {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Match{Value: c, Score: Ratio(target, c)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	kept := scored[:0:len(scored)]
	for _, m := range scored {
		if m.Score >= cutoff {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		kept = scored
	}
	if len(kept) > n {
		kept = kept[:n]
	}
	return kept
}

// matchedLength sums the lengths of all matching blocks between a and b,
// decomposing recursively around the longest common substring the way
// difflib's SequenceMatcher does (without its junk heuristics).
func matchedLength(a, b []rune) int {
	// Positions of each rune in b, for the inner loop of longestMatch.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	stack := []span{{0, len(a), 0, len(b)}}

	matched := 0
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		stack = append(stack,
			span{s.alo, i, s.blo, j},
			span{i + k, s.ahi, j + k, s.bhi},
		)
	}
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the given
// window, preferring the earliest match in a, then in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, size int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, size
}
