package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoProtect(t *testing.T) {
	t.Run("➡️ runs f", func(t *testing.T) {
		ran := false
		GoProtect(func() { ran = true }, nil)
		assert.True(t, ran)
	})

	t.Run("🛡️ panic is recovered", func(t *testing.T) {
		assert.NotPanics(t, func() {
			GoProtect(func() { panic("boom") }, map[string]interface{}{"collection": "pos_items"})
		})
	})
}
