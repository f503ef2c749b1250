package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache(time.Minute, 0)
	defer c.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 42)

	t.Run("✅ fresh hit", func(t *testing.T) {
		v, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("⏰ expired miss", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("🧹 flush", func(t *testing.T) {
		c.Set("a", 1)
		c.Flush()
		_, ok := c.Get("a")
		assert.False(t, ok)
	})
}
