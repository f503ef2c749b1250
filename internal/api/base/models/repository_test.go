package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery(t *testing.T) {
	t.Run("🔧 defaults and clamps", func(t *testing.T) {
		q := PageQuery{Page: 0, Limit: 500}.Normalize(20, 100)
		assert.Equal(t, int64(1), q.Page)
		assert.Equal(t, int64(100), q.Limit)
		assert.Equal(t, int64(0), q.Skip())

		q = PageQuery{Page: 3}.Normalize(20, 100)
		assert.Equal(t, int64(20), q.Limit)
		assert.Equal(t, int64(40), q.Skip())
	})

	t.Run("📄 total pages", func(t *testing.T) {
		r := NewPaginateResult([]int{1, 2}, 1, 2, 5)
		assert.Equal(t, int64(3), r.TotalPage)
		assert.Equal(t, int64(2), r.ItemCount)

		empty := NewPaginateResult[int](nil, 1, 10, 0)
		assert.Equal(t, int64(0), empty.TotalPage)
		assert.NotNil(t, empty.Items)
	})
}
