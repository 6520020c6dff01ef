package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// setupAuthRouter wires the auth routes with a pass-through "session" that
// injects claims for user-1, standing in for the real middleware.
func setupAuthRouter() (*mux.Router, *Service, *MockAuthRepository, *MockMailer) {
	service, mockRepo, mockMailer := setupAuthService()

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	injectSession := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &SessionClaims{UserID: "user-1", Email: "asha@example.com", Role: types.RolePatient}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
	service.RegisterRoutes(api, injectSession)

	return router, service, mockRepo, mockMailer
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler_SetsSessionCookie(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(&types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "s3cret-pass"),
		Role:         types.RolePatient,
	}, nil)

	rec := postJSON(t, router, "/api/v1/auth/login", types.Credentials{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "sb_session", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	mockRepo.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found"))

	rec := postJSON(t, router, "/api/v1/auth/login", types.Credentials{
		Email:    "asha@example.com",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRegisterHandler_Created(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	mockRepo.On("GetUserByMobile", mock.Anything, "9876543210").
		Return(nil, types.NewNotFoundError(types.ErrCodeUserNotFound, "User not found"))
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*types.User")).Return(nil)

	rec := postJSON(t, router, "/api/v1/auth/register", registrationRequest())

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", user["email"])
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)
}

func TestVerifyOtpHandler_MissingInput(t *testing.T) {
	router, _, _, _ := setupAuthRouter()

	rec := postJSON(t, router, "/api/v1/auth/otp/verify", map[string]string{"email": "asha@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.ErrCodeMissingInput, resp.Error.Code)
}

func TestVerifyOtpHandler_NoCodeOnFile(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	mockRepo.On("GetLatestOtpByEmail", mock.Anything, "asha@example.com").
		Return(nil, types.NewNotFoundError(types.ErrCodeOtpNotFound, "No code found for this email"))

	rec := postJSON(t, router, "/api/v1/auth/otp/verify", map[string]string{
		"email": "asha@example.com",
		"otp":   "123456",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.ErrCodeOtpNotFound, resp.Error.Code)
}

func TestChangePasswordHandler_UsesSessionIdentity(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	mockRepo.On("GetUserByID", mock.Anything, "user-1").Return(&types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "current"),
	}, nil)
	mockRepo.On("UpdateUserPassword", mock.Anything, "asha@example.com", mock.AnythingOfType("string")).Return(nil)

	body, _ := json.Marshal(types.PasswordChangeRequest{
		OldPassword:     "current",
		NewPassword:     "fresh-pass",
		ConfirmPassword: "fresh-pass",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password/change", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockRepo.AssertCalled(t, "GetUserByID", mock.Anything, "user-1")
}

func TestUpdateProfileHandler_ReturnsSanitizedUser(t *testing.T) {
	router, _, mockRepo, _ := setupAuthRouter()

	fullName := "Dr. Asha Verma"
	mockRepo.On("UpdateUserProfile", mock.Anything, "user-1", mock.AnythingOfType("*types.ProfileUpdates")).Return(nil)
	mockRepo.On("GetUserByID", mock.Anything, "user-1").Return(&types.User{
		ID:           "user-1",
		Email:        "asha@example.com",
		PasswordHash: "hash",
		FullName:     fullName,
	}, nil)

	body, _ := json.Marshal(map[string]string{"fullName": fullName})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.Contains(t, rec.Body.String(), fullName)
}
