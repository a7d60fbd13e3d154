package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 12, 1, 10, 0, 1, 0, time.UTC)

	cases := map[string]time.Time{
		"2024-12-01T10:00:01Z":          want,
		"2024-12-01T12:00:01+02:00":     want,
		"2024-12-01T10:00:01":           want,
		"2024-12-01T10:00:01.250":       want.Add(250 * time.Millisecond),
		"2024-12-01T10:00:01.123456789": want.Add(123456789),
		"2024-12-01 10:00:01":           want,
	}

	for in, expected := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in, nil)
			require.NoError(t, err)
			assert.True(t, expected.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("yesterday", nil)
	assert.Error(t, err)
}

func TestTimeToISO8601Str(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	assert.Equal(t, "2024-12-01T10:00:01Z", TimeToISO8601Str(time.Date(2024, 12, 1, 17, 0, 1, 0, loc)))
}
