package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

const otpLength = 6

// SendOtp issues a fresh one-time code for the email and mails it. Earlier
// codes for the same email stay in place; verification always reads the
// newest one.
func (s *Service) SendOtp(ctx context.Context, email string) error {
	if email == "" {
		return types.NewValidationError(types.ErrCodeMissingInput, "Email is required")
	}

	code, err := GenerateOtpCode(otpLength)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to generate code", err)
	}

	rec := &types.OtpRecord{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateOtp(ctx, rec); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to store code", err)
	}

	body := fmt.Sprintf("Your SehatBandhu verification code is %s.", code)
	if err := s.mailer.SendEmail(email, "Your verification code", body); err != nil {
		s.logger.WithError(err).Error("Failed to send verification code")
		return types.NewInternalError(types.ErrCodeInternalError, "failed to send code", err)
	}

	s.logger.Security("otp_issued", email, nil)
	return nil
}

// VerifyOtp checks a submitted code against the most recently issued one.
// On success every code for the email is removed. The read and the delete
// are separate statements; two concurrent verifications of the same code can
// both succeed.
func (s *Service) VerifyOtp(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return types.NewValidationError(types.ErrCodeMissingInput, "Email and otp are required")
	}

	rec, err := s.repository.GetLatestOtpByEmail(ctx, email)
	if err != nil {
		// Absence of a stored code is a client-input failure, same as a
		// mismatched or expired one.
		if appErr := types.AsAppError(err); appErr.Code == types.ErrCodeOtpNotFound {
			if s.metrics != nil {
				s.metrics.RecordOtpVerification("not_found")
			}
			return types.NewValidationError(types.ErrCodeOtpNotFound, "No code found for this email")
		}
		return err
	}

	if rec.Code != code {
		s.logger.Security("otp_rejected", email, nil)
		if s.metrics != nil {
			s.metrics.RecordOtpVerification("mismatch")
		}
		return types.NewValidationError(types.ErrCodeInvalidOtp, "Invalid OTP")
	}

	if err := s.repository.DeleteOtpsByEmail(ctx, email); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to clear codes", err)
	}

	s.logger.Security("otp_verified", email, nil)
	if s.metrics != nil {
		s.metrics.RecordOtpVerification("success")
	}
	return nil
}
