package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-results-api/internal/models"
)

func TestAdminRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
		AddRow("a1", "admin", "$2a$10$hash", time.Now(), time.Now())
	mock.ExpectQuery("FROM admins WHERE username = \\$1").WithArgs("admin").WillReturnRows(rows)

	admin, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.Equal(t, "$2a$10$hash", admin.PasswordHash)
}

func TestAdminRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins .* ON CONFLICT \\(username\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "admin", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), &models.Admin{Username: "admin", PasswordHash: "hash"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "admin_session:abc", sessionKey("abc"))
}

func TestSessionRepositoryUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	repo := NewSessionRepository(client)

	_, err := repo.Find(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
	assert.Error(t, repo.Ping(context.Background()))
}
