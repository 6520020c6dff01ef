package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/database"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

func setupAuthRepository(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewRepository(database.Wrap(db, logger.New("error")), logger.New("error"))

	return repo, mock, func() { db.Close() }
}

func TestRepository_CreateUser_DuplicateEmail(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.CreateUser(context.Background(), &types.User{
		ID:    "user-1",
		Email: "asha@example.com",
	})

	require.Error(t, err)
	appErr := types.AsAppError(err)
	assert.Equal(t, types.ErrCodeDuplicateEmail, appErr.Code)
}

func TestRepository_GetUserByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeUserNotFound, types.AsAppError(err).Code)
}

func TestRepository_GetLatestOtpByEmail_OrdersByCreation(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "code", "created_at"}).
		AddRow("otp-2", "asha@example.com", "222222", now)

	mock.ExpectQuery(`SELECT (.+) FROM otp_codes WHERE email = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs("asha@example.com").
		WillReturnRows(rows)

	rec, err := repo.GetLatestOtpByEmail(context.Background(), "asha@example.com")

	require.NoError(t, err)
	assert.Equal(t, "222222", rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteOtpsByEmail(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM otp_codes WHERE email").
		WithArgs("asha@example.com").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteOtpsByEmail(context.Background(), "asha@example.com")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateUserProfile_DynamicSet(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	fullName := "Dr. Asha Verma"
	category := "Cardiology"

	mock.ExpectExec(`UPDATE users SET full_name = \$1, category = \$2, updated_at = \$3 WHERE id = \$4`).
		WithArgs(fullName, category, sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateUserProfile(context.Background(), "user-1", &types.ProfileUpdates{
		FullName: &fullName,
		Category: &category,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateUserPassword_NoSuchUser(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("hash", sqlmock.AnyArg(), "ghost@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUserPassword(context.Background(), "ghost@example.com", "hash")

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeUserNotFound, types.AsAppError(err).Code)
}

func TestRepository_GetResetToken_InvalidWhenAbsent(t *testing.T) {
	repo, mock, cleanup := setupAuthRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM reset_tokens").
		WithArgs("asha@example.com", "bogus").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetResetToken(context.Background(), "asha@example.com", "bogus")

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInvalidToken, types.AsAppError(err).Code)
}
