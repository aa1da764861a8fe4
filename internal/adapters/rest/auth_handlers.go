package rest

import (
	"crypto/subtle"
	"encoding/json"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"landmark-service/internal/core/port/usecases_port"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	registerUC     usecases_port.RegisterUserUseCasePort
	loginUC        usecases_port.LoginUserUseCasePort
	requestResetUC usecases_port.RequestPasswordResetUseCasePort
	resetUC        usecases_port.ResetPasswordUseCasePort
	oauthUC        usecases_port.OAuthSignInUseCasePort // nil when OAuth is not configured
	getProfileUC   usecases_port.GetProfileUseCasePort
	updateUC       usecases_port.UpdateProfileUseCasePort
	secureCookies  bool
}

type AuthUseCases struct {
	Register      usecases_port.RegisterUserUseCasePort
	Login         usecases_port.LoginUserUseCasePort
	RequestReset  usecases_port.RequestPasswordResetUseCasePort
	ResetPassword usecases_port.ResetPasswordUseCasePort
	OAuth         usecases_port.OAuthSignInUseCasePort
	GetProfile    usecases_port.GetProfileUseCasePort
	UpdateProfile usecases_port.UpdateProfileUseCasePort
}

func NewAuthHandler(uc AuthUseCases, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		registerUC:     uc.Register,
		loginUC:        uc.Login,
		requestResetUC: uc.RequestReset,
		resetUC:        uc.ResetPassword,
		oauthUC:        uc.OAuth,
		getProfileUC:   uc.GetProfile,
		updateUC:       uc.UpdateProfile,
		secureCookies:  secureCookies,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SignUp"})

	var req SignUpRequest
	if !decodeJSON(w, r, logger, &req) {
		return
	}

	user, token, err := h.registerUC.Execute(r.Context(), domain.SignUpForm{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	logger.Info("User registered successfully", port.Fields{"user_id": user.ID.String()})
	RespondWithJSON(w, http.StatusCreated, AuthResponse{Token: token, UserID: user.ID.String(), Role: user.Role})
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SignIn"})

	var req SignInRequest
	if !decodeJSON(w, r, logger, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, AuthResponse{Token: token, UserID: user.ID.String(), Role: user.Role})
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset. It answers 202 for
// unknown addresses too.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RequestPasswordReset"})

	var req PasswordResetRequest
	if !decodeJSON(w, r, logger, &req) {
		return
	}
	if err := h.requestResetUC.Execute(r.Context(), req.Email); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ConfirmPasswordReset handles POST /api/v1/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ConfirmPasswordReset"})

	var req PasswordResetConfirmRequest
	if !decodeJSON(w, r, logger, &req) {
		return
	}
	if err := h.resetUC.Execute(r.Context(), req.Token, domain.PasswordForm{Password: req.Password}); err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OAuthLogin handles GET /api/v1/auth/oauth/google/login
func (h *AuthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauthUC == nil {
		WriteJSONError(w, http.StatusNotFound, "OAuth sign-in is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/v1/auth/oauth",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauthUC.LoginURL(state), http.StatusFound)
}

// OAuthCallback handles GET /api/v1/auth/oauth/google/callback
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OAuthCallback"})
	if h.oauthUC == nil {
		WriteJSONError(w, http.StatusNotFound, "OAuth sign-in is not configured")
		return
	}

	query, ok := queryParams(w, r)
	if !ok {
		return
	}
	cookie, err := r.Cookie(oauthStateCookie)
	state := query.Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch", nil)
		WriteJSONError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/api/v1/auth/oauth", MaxAge: -1})

	code := query.Get("code")
	if code == "" {
		WriteJSONError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	user, token, err := h.oauthUC.Execute(r.Context(), code)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, AuthResponse{Token: token, UserID: user.ID.String(), Role: user.Role})
}

// GetProfile handles GET /api/v1/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProfile"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.getProfileUC.Execute(r.Context(), identity)
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toProfileResponse(user))
}

// UpdateProfile handles PATCH /api/v1/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateProfile"})
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, logger, &req) {
		return
	}
	user, err := h.updateUC.Execute(r.Context(), identity, domain.ProfileForm{Username: req.Username})
	if err != nil {
		writeUseCaseError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toProfileResponse(user))
}
