package authdto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserInput(t *testing.T) {
	u, err := CreateUserInput{Email: " Ana@Example.com ", Password: "s3cret-pass", Name: "Ana", Role: "cajero"}.ToModel()
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret-pass")))
	assert.NotNil(t, u.StoreIDs)
}

func TestUpdateUserInput(t *testing.T) {
	t.Run("📝 only present fields", func(t *testing.T) {
		role := "auditor"
		set, err := UpdateUserInput{Role: &role}.ToUpdate()
		require.NoError(t, err)
		assert.Equal(t, "auditor", set["role"])
		assert.Contains(t, set, "updated_at")
		assert.NotContains(t, set, "name")
		assert.NotContains(t, set, "password")
	})

	t.Run("🔒 password is hashed", func(t *testing.T) {
		pw := "another-pass"
		set, err := UpdateUserInput{Password: &pw}.ToUpdate()
		require.NoError(t, err)
		hash, ok := set["password"].(string)
		require.True(t, ok)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)))
	})

	t.Run("🚫 empty body changes nothing", func(t *testing.T) {
		set, err := UpdateUserInput{}.ToUpdate()
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("🟰 false is still written", func(t *testing.T) {
		off := false
		set, err := UpdateUserInput{IsActive: &off}.ToUpdate()
		require.NoError(t, err)
		assert.Equal(t, false, set["is_active"])
	})
}
