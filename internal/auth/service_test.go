package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// MockAuthRepository is a mock implementation of Repository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, user *types.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByMobile(ctx context.Context, mobile string) (*types.User, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepository) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockAuthRepository) UpdateUserProfile(ctx context.Context, id string, updates *types.ProfileUpdates) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockAuthRepository) CreateOtp(ctx context.Context, rec *types.OtpRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuthRepository) GetLatestOtpByEmail(ctx context.Context, email string) (*types.OtpRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.OtpRecord), args.Error(1)
}

func (m *MockAuthRepository) DeleteOtpsByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthRepository) CreateResetToken(ctx context.Context, tok *types.ResetToken) error {
	args := m.Called(ctx, tok)
	return args.Error(0)
}

func (m *MockAuthRepository) GetResetToken(ctx context.Context, email, token string) (*types.ResetToken, error) {
	args := m.Called(ctx, email, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ResetToken), args.Error(1)
}

func (m *MockAuthRepository) DeleteResetToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of notification.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:  "test-secret-key",
			TokenTTL:   7 * 24 * 3600,
			Issuer:     "sehatbandhu",
			CookieName: "sb_session",
		},
		Mail: config.MailConfig{
			From:     "clinic@sehatbandhu.in",
			ResetURL: "https://app.sehatbandhu.in/reset",
		},
	}
}

func setupAuthService() (*Service, *MockAuthRepository, *MockMailer) {
	mockRepo := &MockAuthRepository{}
	mockMailer := &MockMailer{}
	service := NewService(testConfig(), logger.New("error"), mockRepo, mockMailer, nil)
	return service, mockRepo, mockMailer
}

func mustHash(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func registrationRequest() *types.RegistrationRequest {
	return &types.RegistrationRequest{
		Name:     "Asha Verma",
		Mobile:   "9876543210",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     types.RolePatient,
	}
}

func TestRegister_Success(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	mockRepo.On("GetUserByMobile", mock.Anything, "9876543210").
		Return(nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found"))

	var created *types.User
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*types.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*types.User)
		}).Return(nil)

	user, err := service.Register(context.Background(), registrationRequest())

	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	require.NotNil(t, created)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_MissingFields(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	_, err := service.Register(context.Background(), &types.RegistrationRequest{Role: types.RolePatient})

	require.Error(t, err)
	appErr := types.AsAppError(err)
	assert.Equal(t, types.ErrCodeMissingInput, appErr.Code)
	assert.Len(t, appErr.Fields, 3)
	mockRepo.AssertNotCalled(t, "CreateUser")
}

func TestRegister_DuplicateMobile(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	mockRepo.On("GetUserByMobile", mock.Anything, "9876543210").
		Return(&types.User{ID: "existing"}, nil)

	_, err := service.Register(context.Background(), registrationRequest())

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeDuplicateMobile, types.AsAppError(err).Code)
	mockRepo.AssertNotCalled(t, "CreateUser")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	mockRepo.On("GetUserByMobile", mock.Anything, "9876543210").
		Return(nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found"))
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*types.User")).
		Return(types.NewConflictError(types.ErrCodeDuplicateEmail, "An account with this email already exists"))

	_, err := service.Register(context.Background(), registrationRequest())

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeDuplicateEmail, types.AsAppError(err).Code)
}

func TestLogin_Success(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	user := &types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "s3cret-pass"),
		Role:         types.RolePatient,
	}
	mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(user, nil)

	token, err := service.Login(context.Background(), &types.Credentials{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "user-1", token.User.ID)

	claims, err := service.Tokens().Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, types.RolePatient, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	user := &types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "s3cret-pass"),
	}
	mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(user, nil)

	_, err := service.Login(context.Background(), &types.Credentials{
		Email:    "asha@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInvalidCredential, types.AsAppError(err).Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	mockRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found"))

	_, err := service.Login(context.Background(), &types.Credentials{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	// The caller cannot distinguish unknown email from bad password.
	assert.Equal(t, types.ErrCodeInvalidCredential, types.AsAppError(err).Code)
}

func TestChangePassword_MismatchBeforeAnyLookup(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	err := service.ChangePassword(context.Background(), "user-1", &types.PasswordChangeRequest{
		OldPassword:     "old",
		NewPassword:     "new-one",
		ConfirmPassword: "new-two",
	})

	require.Error(t, err)
	assert.Equal(t, types.ErrCodePasswordMismatch, types.AsAppError(err).Code)
	mockRepo.AssertNotCalled(t, "GetUserByID")
}

func TestChangePassword_MissingInput(t *testing.T) {
	service, _, _ := setupAuthService()

	err := service.ChangePassword(context.Background(), "user-1", &types.PasswordChangeRequest{})

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeMissingInput, types.AsAppError(err).Code)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	user := &types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "current"),
	}
	mockRepo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil)

	err := service.ChangePassword(context.Background(), "user-1", &types.PasswordChangeRequest{
		OldPassword:     "not-current",
		NewPassword:     "fresh-pass",
		ConfirmPassword: "fresh-pass",
	})

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInvalidCredential, types.AsAppError(err).Code)
	mockRepo.AssertNotCalled(t, "UpdateUserPassword")
}

func TestChangePassword_Success(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	user := &types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "current"),
	}
	mockRepo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil)

	var newHash string
	mockRepo.On("UpdateUserPassword", mock.Anything, "asha@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			newHash = args.Get(2).(string)
		}).Return(nil)

	err := service.ChangePassword(context.Background(), "user-1", &types.PasswordChangeRequest{
		OldPassword:     "current",
		NewPassword:     "fresh-pass",
		ConfirmPassword: "fresh-pass",
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("fresh-pass")))
}

func TestUpdateProfile_EmptyUpdates(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	_, err := service.UpdateProfile(context.Background(), "user-1", &types.ProfileUpdates{})

	require.Error(t, err)
	assert.Equal(t, types.ErrCodeMissingInput, types.AsAppError(err).Code)
	mockRepo.AssertNotCalled(t, "UpdateUserProfile")
}

func TestUpdateProfile_Success(t *testing.T) {
	service, mockRepo, _ := setupAuthService()

	fullName := "Dr. Asha Verma"
	updates := &types.ProfileUpdates{FullName: &fullName}

	mockRepo.On("UpdateUserProfile", mock.Anything, "user-1", updates).Return(nil)
	mockRepo.On("GetUserByID", mock.Anything, "user-1").Return(&types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: "hash",
		FullName:     fullName,
	}, nil)

	user, err := service.UpdateProfile(context.Background(), "user-1", updates)

	require.NoError(t, err)
	assert.Equal(t, fullName, user.FullName)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(&config.JWTConfig{
		SecretKey: "test-secret-key",
		TokenTTL:  7 * 24 * 3600,
		Issuer:    "sehatbandhu",
	})

	user := &types.User{ID: "user-1", Email: "asha@example.com", Role: types.RoleDoctor}

	signed, expiresAt, err := tm.Generate(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := tm.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, types.RoleDoctor, claims.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager(&config.JWTConfig{SecretKey: "secret-a", TokenTTL: 3600})
	verifier := NewTokenManager(&config.JWTConfig{SecretKey: "secret-b", TokenTTL: 3600})

	signed, _, err := issuer.Generate(&types.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeInvalidToken, types.AsAppError(err).Code)
}
