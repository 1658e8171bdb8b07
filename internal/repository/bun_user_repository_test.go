package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telbook/telbook/internal/db/models"
)

func TestBunUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	t.Run("create and get by id", func(t *testing.T) {
		user := &models.User{
			Email:        "carol@example.com",
			Name:         "Carol",
			PasswordHash: "hash",
		}
		require.NoError(t, repo.Create(ctx, user))
		require.NotZero(t, user.ID)

		retrieved, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", retrieved.Email)
		assert.False(t, retrieved.Disabled())
	})

	t.Run("get by email", func(t *testing.T) {
		retrieved, err := repo.GetByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Carol", retrieved.Name)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{
			Email:        "carol@example.com",
			Name:         "Other Carol",
			PasswordHash: "hash",
		})
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("list returns all users", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
