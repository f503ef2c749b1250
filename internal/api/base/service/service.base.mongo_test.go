package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateData(t *testing.T) {
	t.Run("📦 plain map goes to $set", func(t *testing.T) {
		u, err := ToUpdateData(map[string]interface{}{"notes": "x"})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"notes": "x"}, u.Set)
		assert.Nil(t, u.Unset)
	})

	t.Run("🧰 operators kept", func(t *testing.T) {
		u, err := ToUpdateData(bson.M{
			"$set":         bson.M{"status": "pending"},
			"$setOnInsert": bson.M{"created_at": 1},
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", u.Set["status"])
		assert.Equal(t, 1, u.SetOnInsert["created_at"])
	})

	t.Run("🏗️ struct through bson tags", func(t *testing.T) {
		type patch struct {
			Notes string `bson:"notes"`
			Skip  string `bson:"skip,omitempty"`
		}
		u, err := ToUpdateData(patch{Notes: "n"})
		require.NoError(t, err)
		assert.Equal(t, "n", u.Set["notes"])
		_, has := u.Set["skip"]
		assert.False(t, has)
	})

	t.Run("🕳️ empty", func(t *testing.T) {
		u, err := ToUpdateData(bson.M{})
		require.NoError(t, err)
		assert.True(t, u.IsEmpty())
	})
}
