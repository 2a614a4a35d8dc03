package utils

import (
	"testing"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalCompact(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"45s", 45 * time.Second},
		{"30m", 30 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d2h30m", 26*time.Hour + 30*time.Minute},
		{"1w", 7 * 24 * time.Hour},
		{"2H", 2 * time.Hour},
		{"30m2h", 2*time.Hour + 30*time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntervalNaturalLanguage(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseInterval("in 3 hours", now)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, got)
}

func TestParseIntervalRejects(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, input := range []string{
		"",
		"footime",
		"0s",     // zero-length interval
		"h",      // unit without digits
		"1x2y3z", // unknown units
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseInterval(input, now)
			require.Error(t, err)
			assert.Equal(t, errs.Validation, errs.KindOf(err))
		})
	}
}
