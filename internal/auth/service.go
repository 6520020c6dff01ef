package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/internal/notification"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/monitoring"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// Service handles account registration, login and credential lifecycle.
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository Repository
	passwords  *PasswordManager
	tokens     *TokenManager
	mailer     notification.Mailer
	metrics    *monitoring.MetricsCollector
}

// NewService creates a new auth service
func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo Repository,
	mailer notification.Mailer,
	metrics *monitoring.MetricsCollector,
) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		passwords:  NewPasswordManager(),
		tokens:     NewTokenManager(&cfg.JWT),
		mailer:     mailer,
		metrics:    metrics,
	}
}

// Tokens exposes the token manager for the HTTP layer's auth middleware.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates a new account and returns its sanitized view.
func (s *Service) Register(ctx context.Context, req *types.RegistrationRequest) (*types.PublicUser, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	// The mobile column carries no unique index; duplicates are caught by
	// lookup only on the path that reaches it first.
	if req.Mobile != "" {
		if existing, err := s.repository.GetUserByMobile(ctx, req.Mobile); err == nil && existing != nil {
			return nil, types.NewConflictError(types.ErrCodeDuplicateMobile, "An account with this mobile already exists")
		}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &types.User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Mobile:         req.Mobile,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Role:           req.Role,
		DOB:            req.DOB,
		Address:        req.Address,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Experience:     req.Experience,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuthAttempt("register", "failure")
		}
		return nil, err
	}

	s.logger.Audit(user.ID, "user_registered", "users", true, map[string]interface{}{
		"role": user.Role,
	})
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt("register", "success")
	}

	return user.PublicView(), nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, creds *types.Credentials) (*types.AuthToken, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, types.NewValidationError(types.ErrCodeMissingInput, "Email and password are required")
	}

	user, err := s.repository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		s.recordLoginFailure(creds.Email, "unknown_email")
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidCredential, "Invalid email or password")
	}

	ok, err := s.passwords.VerifyPassword(user.PasswordHash, creds.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to verify password", err)
	}
	if !ok {
		s.recordLoginFailure(creds.Email, "bad_password")
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidCredential, "Invalid email or password")
	}

	signed, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to issue session token", err)
	}

	s.logger.Audit(user.ID, "user_login", "sessions", true, nil)
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt("login", "success")
	}

	return &types.AuthToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		IssuedAt:    time.Now().UTC(),
		User:        user.PublicView(),
	}, nil
}

// ChangePassword rotates the password of an authenticated account.
func (s *Service) ChangePassword(ctx context.Context, userID string, req *types.PasswordChangeRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return types.NewValidationError(types.ErrCodeMissingInput, "Old, new and confirm passwords are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return types.NewValidationError(types.ErrCodePasswordMismatch, "New password and confirmation do not match")
	}

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.passwords.VerifyPassword(user.PasswordHash, req.OldPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to verify password", err)
	}
	if !ok {
		s.logger.Security("password_change_rejected", user.Email, nil)
		return types.NewAuthenticationError(types.ErrCodeInvalidCredential, "Old password is incorrect")
	}

	hash, err := s.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	if err := s.repository.UpdateUserPassword(ctx, user.Email, hash); err != nil {
		return err
	}

	s.logger.Audit(user.ID, "password_changed", "users", true, nil)
	return nil
}

// UpdateProfile applies a partial profile update and returns the fresh
// sanitized view.
func (s *Service) UpdateProfile(ctx context.Context, userID string, updates *types.ProfileUpdates) (*types.PublicUser, error) {
	if updates == nil || updates.Empty() {
		return nil, types.NewValidationError(types.ErrCodeMissingInput, "No profile fields supplied")
	}

	if err := s.repository.UpdateUserProfile(ctx, userID, updates); err != nil {
		return nil, err
	}

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Audit(userID, "profile_updated", "users", true, nil)
	return user.PublicView(), nil
}

// GetProfile returns the sanitized view of an account.
func (s *Service) GetProfile(ctx context.Context, userID string) (*types.PublicUser, error) {
	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.PublicView(), nil
}

func (s *Service) recordLoginFailure(email, reason string) {
	s.logger.Security("login_failed", email, map[string]interface{}{"reason": reason})
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt("login", "failure")
	}
}

// validateRegistration checks the required registration fields.
func validateRegistration(req *types.RegistrationRequest) *types.AppError {
	var missing []types.FieldError

	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, types.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, types.FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		missing = append(missing, types.FieldError{Field: "password", Message: "password is required"})
	}
	if len(missing) > 0 {
		return types.NewValidationError(types.ErrCodeMissingInput, "Missing required registration fields", missing...)
	}

	if !types.ValidUserRole(req.Role) {
		return types.NewValidationError(types.ErrCodeSchemaValidation, "role must be patient or doctor",
			types.FieldError{Field: "role", Message: "must be patient or doctor"})
	}
	return nil
}
