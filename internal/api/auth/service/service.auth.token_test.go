package authsvc

import (
	"testing"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Email: "ana@example.com", Role: models.RoleGerente}

	t.Run("✅ issue then parse", func(t *testing.T) {
		s := NewTokenService("secret", time.Hour)
		raw, exp, err := s.Issue(user)
		require.NoError(t, err)
		assert.Greater(t, exp, time.Now().Unix())

		claims, err := s.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
		assert.Equal(t, models.RoleGerente, claims.Role)
		assert.NotEmpty(t, claims.Id)
	})

	t.Run("🆔 every token gets its own jti", func(t *testing.T) {
		s := NewTokenService("secret", time.Hour)
		a, _, _ := s.Issue(user)
		b, _, _ := s.Issue(user)
		assert.NotEqual(t, a, b)
	})

	t.Run("❌ wrong secret", func(t *testing.T) {
		raw, _, err := NewTokenService("secret", time.Hour).Issue(user)
		require.NoError(t, err)
		_, err = NewTokenService("other", time.Hour).Parse(raw)
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	})

	t.Run("⏰ expired", func(t *testing.T) {
		s := NewTokenService("secret", time.Minute)
		s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		raw, _, err := s.Issue(user)
		require.NoError(t, err)
		_, err = s.Parse(raw)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("❌ garbage", func(t *testing.T) {
		_, err := NewTokenService("secret", time.Hour).Parse("not.a.token")
		assert.ErrorIs(t, err, common.ErrTokenInvalid)
	})
}
