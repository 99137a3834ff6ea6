package postgresadapter_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgresadapter "moringadesk/contexts/identity-access/auth-service/adapters/postgres"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *postgresadapter.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgresadapter.Migrate(db))
	return postgresadapter.NewStore(db, nil)
}

func sampleUser(id string, email string, created time.Time) entities.User {
	return entities.User{
		UserID:       id,
		Email:        email,
		FullName:     "Sample " + id,
		PasswordHash: "hash",
		Role:         entities.RoleStudent,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Do(ctx, func(repo ports.Repository) error {
		if err := repo.CreateUser(ctx, sampleUser("u-1", "one@example.com", base)); err != nil {
			return err
		}
		return repo.CreateUser(ctx, sampleUser("u-2", "two@example.com", base.Add(time.Minute)))
	}))
	err := store.Do(ctx, func(repo ports.Repository) error {
		return repo.CreateUser(ctx, sampleUser("u-3", "one@example.com", base))
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	require.NoError(t, store.Do(ctx, func(repo ports.Repository) error {
		user, found, err := repo.GetUserByEmail(ctx, " ONE@example.com ")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "u-1", user.UserID)

		user.Role = entities.RoleAdmin
		require.NoError(t, repo.SaveUser(ctx, user))
		reloaded, err := repo.GetUser(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, entities.RoleAdmin, reloaded.Role)

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "u-2", users[0].UserID)

		deleted, err := repo.DeleteUser(ctx, "u-2")
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = repo.DeleteUser(ctx, "u-2")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetUser(ctx, "u-2")
		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
		assert.ErrorIs(t, repo.SaveUser(ctx, sampleUser("u-9", "nine@example.com", base)), domainerrors.ErrUserNotFound)
		return nil
	}))
}

func TestResetTokens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Do(ctx, func(repo ports.Repository) error {
		if err := repo.CreateUser(ctx, sampleUser("u-1", "one@example.com", now)); err != nil {
			return err
		}
		return repo.CreateResetToken(ctx, entities.ResetToken{
			TokenID: "t-1", UserID: "u-1", TokenHash: "abc", ExpiresAt: now.Add(30 * time.Minute), CreatedAt: now,
		})
	}))

	require.NoError(t, store.Do(ctx, func(repo ports.Repository) error {
		token, found, err := repo.GetResetTokenByHash(ctx, "abc")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "u-1", token.UserID)
		assert.False(t, token.Expired(now))
		assert.True(t, token.Expired(now.Add(30*time.Minute)))

		require.NoError(t, repo.DeleteResetTokensByUser(ctx, "u-1"))
		_, found, err = repo.GetResetTokenByHash(ctx, "abc")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	}))
}
