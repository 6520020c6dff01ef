package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// ContextWithClaims stores validated session claims on the request context.
func ContextWithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves session claims placed by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*SessionClaims)
	return claims, ok
}

// RegisterRoutes configures the auth routes. requireAuth wraps the handlers
// that need a validated session.
func (s *Service) RegisterRoutes(api *mux.Router, requireAuth mux.MiddlewareFunc) {
	api.HandleFunc("/auth/register", s.registerHandler).Methods("POST")
	api.HandleFunc("/auth/login", s.loginHandler).Methods("POST")
	api.HandleFunc("/auth/otp/send", s.sendOtpHandler).Methods("POST")
	api.HandleFunc("/auth/otp/verify", s.verifyOtpHandler).Methods("POST")
	api.HandleFunc("/auth/password/forgot", s.forgotPasswordHandler).Methods("POST")
	api.HandleFunc("/auth/password/reset", s.resetPasswordHandler).Methods("POST")

	api.Handle("/auth/password/change", requireAuth(http.HandlerFunc(s.changePasswordHandler))).Methods("PUT")
	api.Handle("/auth/profile", requireAuth(http.HandlerFunc(s.getProfileHandler))).Methods("GET")
	api.Handle("/auth/profile", requireAuth(http.HandlerFunc(s.updateProfileHandler))).Methods("PATCH")

	s.logger.Info("Auth routes configured")
}

// registerHandler handles account registration
func (s *Service) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req types.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	user, err := s.Register(r.Context(), &req)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    user,
	})
}

// loginHandler handles login and sets the session cookie
func (s *Service) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	token, err := s.Login(r.Context(), &creds)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.JWT.CookieName,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   s.tokens.CookieTTL(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	s.writeJSONResponse(w, http.StatusOK, token)
}

// sendOtpHandler issues a verification code
func (s *Service) sendOtpHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	if err := s.SendOtp(r.Context(), req.Email); err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "OTP sent",
	})
}

// verifyOtpHandler checks a submitted verification code
func (s *Service) verifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	if err := s.VerifyOtp(r.Context(), req.Email, req.Otp); err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":  "OTP verified",
		"verified": true,
	})
}

// forgotPasswordHandler issues a reset token
func (s *Service) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	if err := s.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Reset link sent",
	})
}

// resetPasswordHandler redeems a reset token
func (s *Service) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	if err := s.ResetPassword(r.Context(), req.Email, req.Token, req.Password); err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Password reset successful",
	})
}

// changePasswordHandler rotates the password of the authenticated account
func (s *Service) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Authentication required"))
		return
	}

	var req types.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	if err := s.ChangePassword(r.Context(), claims.UserID, &req); err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Password changed successfully",
	})
}

// getProfileHandler returns the authenticated account's sanitized view
func (s *Service) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Authentication required"))
		return
	}

	user, err := s.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, user)
}

// updateProfileHandler applies a partial profile update
func (s *Service) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Authentication required"))
		return
	}

	var updates types.ProfileUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeSchemaValidation, "Invalid request body"))
		return
	}

	user, err := s.UpdateProfile(r.Context(), claims.UserID, &updates)
	if err != nil {
		s.writeErrorResponse(w, types.AsAppError(err))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    user,
	})
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes a structured error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, appErr *types.AppError) {
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
	if len(appErr.Fields) > 0 {
		response["error"].(map[string]interface{})["fields"] = appErr.Fields
	}

	s.writeJSONResponse(w, appErr.HTTPStatus(), response)
}
