package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/property-maintenance/internal/models"
)

func TestMemoryUserCollection(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserCollection()

	user := models.User{
		ID:       primitive.NewObjectID(),
		Username: "jordan",
		Email:    "jordan@example.com",
		Role:     models.RoleTenant,
	}
	require.NoError(t, users.InsertUser(ctx, user))

	t.Run("duplicate insert fails", func(t *testing.T) {
		assert.Error(t, users.InsertUser(ctx, user))
	})

	t.Run("find by id, username, email", func(t *testing.T) {
		byID, err := users.FindUserByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "jordan", byID.Username)

		byName, err := users.FindUserByUsername(ctx, "jordan")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		byEmail, err := users.FindUserByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		_, err = users.FindUserByUsername(ctx, "nobody")
		assert.Error(t, err)
	})

	t.Run("update user", func(t *testing.T) {
		updated := user
		updated.FirstName = "Jordan"
		require.NoError(t, users.UpdateUser(ctx, user.ID.Hex(), updated))

		byID, err := users.FindUserByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Jordan", byID.FirstName)
		assert.False(t, byID.UpdatedAt.IsZero())
	})

	t.Run("last login stamp", func(t *testing.T) {
		require.NoError(t, users.UpdateLastLogin(ctx, user.ID.Hex()))
		byID, err := users.FindUserByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		require.NotNil(t, byID.LastLogin)
	})

	t.Run("returned copies do not alias the stored user", func(t *testing.T) {
		byID, err := users.FindUserByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		byID.Username = "mutated"

		again, err := users.FindUserByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "jordan", again.Username)
	})
}
