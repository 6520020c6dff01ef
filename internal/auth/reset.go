package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// resetTokenTTL is the grant lifetime added to the issuance instant,
// in milliseconds.
const resetTokenTTL = int64(3600000)

// RequestPasswordReset issues a reset grant for an existing account and
// mails the reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return types.NewValidationError(types.ErrCodeMissingInput, "Email is required")
	}

	if _, err := s.repository.GetUserByEmail(ctx, email); err != nil {
		return err
	}

	token, err := GenerateResetToken()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to generate token", err)
	}

	now := time.Now().UTC()
	grant := &types.ResetToken{
		ID:        uuid.New().String(),
		Email:     email,
		Token:     token,
		ExpiresAt: now.UnixMilli() + resetTokenTTL,
		CreatedAt: now,
	}

	if err := s.repository.CreateResetToken(ctx, grant); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to store token", err)
	}

	link := fmt.Sprintf("%s?email=%s&token=%s", s.config.Mail.ResetURL, email, token)
	body := fmt.Sprintf("Use the following link to reset your SehatBandhu password:\n\n%s\n\nThe link is valid for one hour.", link)
	if err := s.mailer.SendEmail(email, "Reset your password", body); err != nil {
		s.logger.WithError(err).Error("Failed to send reset mail")
		return types.NewInternalError(types.ErrCodeInternalError, "failed to send reset mail", err)
	}

	s.logger.Security("reset_requested", email, nil)
	return nil
}

// ResetPassword redeems a reset grant. The grant is single-use: a successful
// redemption deletes it. An expired grant is reported but left in place.
func (s *Service) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if email == "" || token == "" || newPassword == "" {
		return types.NewValidationError(types.ErrCodeMissingInput, "Email, token and password are required")
	}

	grant, err := s.repository.GetResetToken(ctx, email, token)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordResetRedemption("invalid")
		}
		return err
	}

	if grant.Expired(time.Now()) {
		s.logger.Security("reset_expired", email, nil)
		if s.metrics != nil {
			s.metrics.RecordResetRedemption("expired")
		}
		return types.NewValidationError(types.ErrCodeTokenExpired, "Reset token has expired")
	}

	if _, err := s.repository.GetUserByEmail(ctx, email); err != nil {
		return err
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	if err := s.repository.UpdateUserPassword(ctx, email, hash); err != nil {
		return err
	}

	if err := s.repository.DeleteResetToken(ctx, grant.ID); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to delete token", err)
	}

	s.logger.Security("reset_redeemed", email, nil)
	if s.metrics != nil {
		s.metrics.RecordResetRedemption("success")
	}
	return nil
}
