package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDates(t *testing.T) {
	t.Run("📅 bare date", func(t *testing.T) {
		got, isDate, err := ParseDateOrTime("2024-03-01")
		require.NoError(t, err)
		assert.True(t, isDate)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("🕐 RFC3339 normalised to UTC", func(t *testing.T) {
		got, isDate, err := ParseDateOrTime("2024-03-01T10:00:00-05:00")
		require.NoError(t, err)
		assert.False(t, isDate)
		assert.Equal(t, time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), got)
	})

	t.Run("🌙 range end covers the day", func(t *testing.T) {
		got, err := ParseRangeEnd("2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), got)
	})

	t.Run("❌ invalid", func(t *testing.T) {
		_, _, err := ParseDateOrTime("01/03/2024")
		assert.Error(t, err)
	})

	t.Run("🕳️ empty upstream time", func(t *testing.T) {
		got, err := ParseUpstreamTime("")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestParseRange(t *testing.T) {
	t.Run("📆 bare dates cover the whole end day", func(t *testing.T) {
		from, to, err := ParseRange("2024-01-01", "2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), to)
	})

	t.Run("🕐 timestamps are kept", func(t *testing.T) {
		_, to, err := ParseRange("2024-01-01T10:00:00Z", "2024-01-01T12:00:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), to)
	})

	t.Run("❌ start after end", func(t *testing.T) {
		_, _, err := ParseRange("2024-02-01", "2024-01-01")
		assert.Error(t, err)
	})

	t.Run("❌ garbage", func(t *testing.T) {
		_, _, err := ParseRange("yesterday", "2024-01-01")
		assert.ErrorContains(t, err, "startDate")
	})
}
