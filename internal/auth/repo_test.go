package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error)
	require.NoError(t, db.Exec(`DELETE FROM users`).Error)

	return db
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := setupAuthTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, &models.User{
		Email:        "admin@nuthub.test",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		Name:         "Admin",
		IsAdmin:      true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byEmail, err := repo.FindUserByEmail(ctx, "admin@nuthub.test")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.True(t, byEmail.IsAdmin)

	byID, err := repo.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@nuthub.test", byID.Email)
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := setupAuthTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.FindUserByEmail(ctx, "ghost@nuthub.test")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := setupAuthTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, &models.User{
		Email:        "admin@nuthub.test",
		PasswordHash: "hash",
		Name:         "Admin",
	})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, &models.User{
		Email:        "admin@nuthub.test",
		PasswordHash: "hash",
		Name:         "Shadow",
	})
	require.Error(t, err)
}
