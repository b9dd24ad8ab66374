package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-password"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "admin@example.com", Role: models.RoleAdmin}

	token, err := auth.GenerateToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	id, err := auth.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &models.User{ID: 7, Email: "admin@example.com"}

	token, err := auth.GenerateToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	user := &models.User{ID: 7, Email: "admin@example.com"}

	token, err := auth.GenerateToken(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, "test-secret")
	assert.Error(t, err)
}
