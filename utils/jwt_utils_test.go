package utils

import (
	"testing"
	"time"

	"nimbusdrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "user@example.com",
		Name:  "User",
	}

	token, err := GenerateJWTToken(user, "secret", "nimbusdrive-test", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyJWTToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, "nimbusdrive-test", claims.Issuer)

	userID, err := GetUserIDFromToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestVerifyJWTTokenRejections(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "user@example.com"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateJWTToken(user, "secret", "iss", time.Hour)
		require.NoError(t, err)

		_, err = VerifyJWTToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateJWTToken(user, "secret", "iss", -time.Minute)
		require.NoError(t, err)

		_, err = VerifyJWTToken(token, "secret")
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := VerifyJWTToken("not.a.token", "secret")
		assert.Error(t, err)
	})
}
