// Copyright (c) 2026, the backgroundarr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "breakingbad", "breakingbad", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// 9-char block "breakingb" plus the trailing "d": 2*10/22.
		{"single typo", "breakingbod", "breakingbad", 2.0 * 10 / 22},
		{"substring", "saul", "bettercallsaul", 2.0 * 4 / 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Ratio(tc.a, tc.b), 1e-9)
		})
	}
}

func TestRatioTypoStaysAboveDefaultThreshold(t *testing.T) {
	t.Parallel()

	// The canonical tuning case: a one-letter typo must still clear 0.9,
	// while an unrelated title from the same library must not.
	assert.Greater(t, Ratio("breakingbod", "breakingbad"), 0.9)
	assert.Less(t, Ratio("saul", "breakingbad"), 0.5)
}

func TestTopMatches(t *testing.T) {
	t.Parallel()

	candidates := []string{"breakingbad", "bettercallsaul", "thewire"}

	t.Run("orders by closeness", func(t *testing.T) {
		got := TopMatches("breakingbda", candidates, 5, 0.5)
		require.NotEmpty(t, got)
		assert.Equal(t, "breakingbad", got[0].Value)
	})

	t.Run("cutoff drops weak candidates", func(t *testing.T) {
		got := TopMatches("breakingbda", candidates, 5, 0.8)
		require.Len(t, got, 1)
		assert.Equal(t, "breakingbad", got[0].Value)
	})

	t.Run("falls back to best n when nothing clears cutoff", func(t *testing.T) {
		got := TopMatches("saul", candidates, 2, 0.5)
		require.Len(t, got, 2)
		assert.Equal(t, "bettercallsaul", got[0].Value)
	})

	t.Run("empty candidates", func(t *testing.T) {
		assert.Nil(t, TopMatches("x", nil, 5, 0.5))
	})
}
