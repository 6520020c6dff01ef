package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/database"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// Repository defines the persistence surface for accounts, one-time codes
// and reset grants.
type Repository interface {
	CreateUser(ctx context.Context, user *types.User) error
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*types.User, error)
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
	UpdateUserProfile(ctx context.Context, id string, updates *types.ProfileUpdates) error

	CreateOtp(ctx context.Context, rec *types.OtpRecord) error
	GetLatestOtpByEmail(ctx context.Context, email string) (*types.OtpRecord, error)
	DeleteOtpsByEmail(ctx context.Context, email string) error

	CreateResetToken(ctx context.Context, tok *types.ResetToken) error
	GetResetToken(ctx context.Context, email, token string) (*types.ResetToken, error)
	DeleteResetToken(ctx context.Context, id string) error
}

type repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new auth repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

const userColumns = `id, name, mobile, email, password_hash, role, dob, address, gender,
	specialization, license_number, experience, full_name, profile_photo, category,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*types.User, error) {
	user := &types.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Mobile,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.DOB,
		&user.Address,
		&user.Gender,
		&user.Specialization,
		&user.LicenseNumber,
		&user.Experience,
		&user.FullName,
		&user.ProfilePhoto,
		&user.Category,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new account row. A unique violation on the email
// column is reported as DUPLICATE_EMAIL.
func (r *repository) CreateUser(ctx context.Context, user *types.User) error {
	query := `
		INSERT INTO users (id, name, mobile, email, password_hash, role, dob, address,
			gender, specialization, license_number, experience, full_name, profile_photo,
			category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Mobile,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.DOB,
		user.Address,
		user.Gender,
		user.Specialization,
		user.LicenseNumber,
		user.Experience,
		user.FullName,
		user.ProfilePhoto,
		user.Category,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return types.NewConflictError(types.ErrCodeDuplicateEmail, "An account with this email already exists")
			}
		}
		r.logger.WithError(err).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithUserID(user.ID).Info("User created")
	return nil
}

// GetUserByEmail retrieves an account by email.
func (r *repository) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves an account by ID.
func (r *repository) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByMobile retrieves an account by mobile number.
func (r *repository) GetUserByMobile(ctx context.Context, mobile string) (*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE mobile = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, mobile))
	if err == sql.ErrNoRows {
		return nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by mobile: %w", err)
	}
	return user, nil
}

// UpdateUserPassword replaces the stored password hash for the account with
// the given email.
func (r *repository) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE email = $3`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), email)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found")
	}

	r.logger.Security("password_updated", email, nil)
	return nil
}

// UpdateUserProfile applies the supplied profile fields using a dynamic SET
// clause. Nil fields are left unchanged.
func (r *repository) UpdateUserProfile(ctx context.Context, id string, updates *types.ProfileUpdates) error {
	setParts := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argIndex := 1

	if updates.FullName != nil {
		setParts = append(setParts, fmt.Sprintf("full_name = $%d", argIndex))
		args = append(args, *updates.FullName)
		argIndex++
	}
	if updates.ProfilePhoto != nil {
		setParts = append(setParts, fmt.Sprintf("profile_photo = $%d", argIndex))
		args = append(args, *updates.ProfilePhoto)
		argIndex++
	}
	if updates.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *updates.Category)
		argIndex++
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now().UTC())
	argIndex++

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setParts, ", "), argIndex)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found")
	}

	return nil
}

// CreateOtp inserts a new one-time code row.
func (r *repository) CreateOtp(ctx context.Context, rec *types.OtpRecord) error {
	query := `INSERT INTO otp_codes (id, email, code, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Email, rec.Code, rec.CreatedAt)
	if err != nil {
		r.logger.WithError(err).Error("Failed to create OTP record")
		return fmt.Errorf("failed to create otp: %w", err)
	}
	return nil
}

// GetLatestOtpByEmail returns the most recently created code for the email.
func (r *repository) GetLatestOtpByEmail(ctx context.Context, email string) (*types.OtpRecord, error) {
	query := `
		SELECT id, email, code, created_at
		FROM otp_codes
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1`

	rec := &types.OtpRecord{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&rec.ID,
		&rec.Email,
		&rec.Code,
		&rec.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, types.NewNotFoundError(types.ErrCodeOtpNotFound, "No code found for this email")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return rec, nil
}

// DeleteOtpsByEmail removes every code issued to the email.
func (r *repository) DeleteOtpsByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM otp_codes WHERE email = $1`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		r.logger.WithError(err).Error("Failed to delete OTP records")
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}

// CreateResetToken inserts a new reset grant.
func (r *repository) CreateResetToken(ctx context.Context, tok *types.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (id, email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, tok.ID, tok.Email, tok.Token, tok.ExpiresAt, tok.CreatedAt)
	if err != nil {
		r.logger.WithError(err).Error("Failed to create reset token")
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetResetToken retrieves the grant matching both email and token value.
func (r *repository) GetResetToken(ctx context.Context, email, token string) (*types.ResetToken, error) {
	query := `
		SELECT id, email, token, expires_at, created_at
		FROM reset_tokens
		WHERE email = $1 AND token = $2`

	tok := &types.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, email, token).Scan(
		&tok.ID,
		&tok.Email,
		&tok.Token,
		&tok.ExpiresAt,
		&tok.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, types.NewValidationError(types.ErrCodeInvalidToken, "Invalid reset token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return tok, nil
}

// DeleteResetToken removes a redeemed grant.
func (r *repository) DeleteResetToken(ctx context.Context, id string) error {
	query := `DELETE FROM reset_tokens WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.WithError(err).Error("Failed to delete reset token")
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
