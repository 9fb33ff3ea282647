package auth

import (
	"net/http"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/ratelimit"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter *ratelimit.Limiter
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter) *Handler {
	return &Handler{service: service, rateLimiter: rateLimiter}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries a new access token
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResponse returns the raw reset token
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// ResetPasswordRequest represents the password reset confirmation
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ProtectedResponse echoes the authenticated caller
type ProtectedResponse struct {
	Message string  `json:"message"`
	User    *Claims `json:"user"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account and receive access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Missing or invalid fields"
// @Failure      409 {object} httputil.ErrorResponse "User already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h.rateLimited(w, r, ratelimit.PurposeRegister) {
		return
	}

	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user registered successfully", "user_id", result.User.ID)
	httputil.RespondJSON(w, result, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate user and receive access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorResponse "Missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.rateLimited(w, r, ratelimit.PurposeLogin) {
		return
	}

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user logged in successfully", "user_id", result.User.ID)
	httputil.RespondJSON(w, result, http.StatusOK)
}

// Logout clears the caller's refresh token
// @Summary      Logout
// @Description  Invalidate the stored refresh token. The access token stays valid until it expires.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.SuccessResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// a valid token for a deleted user
			err = apperr.InvalidToken("Unauthorized")
		}
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, httputil.SuccessResponse{Success: true, Message: "Logged out successfully"}, http.StatusOK)
}

// RefreshToken handles access token refresh
// @Summary      Refresh access token
// @Description  Exchange the stored refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "User id and refresh token"
// @Success      200 {object} RefreshResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Invalid refresh token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/refresh-token [post]
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, RefreshResponse{AccessToken: accessToken}, http.StatusOK)
}

// ForgotPassword starts a password reset
// @Summary      Request password reset
// @Description  Creates a one-hour reset token. The token is returned and, when mail is configured, also emailed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} ForgotPasswordResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing email"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.rateLimited(w, r, ratelimit.PurposeForgotPassword) {
		return
	}

	var req ForgotPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	if req.Email != "" {
		active, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
		if err != nil {
			logger.Error("failed to check email cooldown", "error", err.Error())
		} else if active {
			httputil.RespondAppError(w, r, apperr.RateLimited("Please wait before requesting another reset"))
			return
		}
	}

	token, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	httputil.RespondJSON(w, ForgotPasswordResponse{
		Message:    "Password reset token generated",
		ResetToken: token,
	}, http.StatusOK)
}

// ResetPassword completes a password reset
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} httputil.SuccessResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields"
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, httputil.SuccessResponse{
		Success: true,
		Message: "Password has been reset successfully",
	}, http.StatusOK)
}

// Protected echoes the authenticated caller
// @Summary      Protected endpoint
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProtectedResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Router       /protected [get]
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	httputil.RespondJSON(w, ProtectedResponse{
		Message: "This is a protected route",
		User:    claims,
	}, http.StatusOK)
}

// rateLimited enforces the per-IP limit for purpose. Redis failures are
// logged and never block the request.
func (h *Handler) rateLimited(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := httputil.ClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondAppError(w, r, apperr.RateLimited("Too many requests, please try again later"))
		return true
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}
	return false
}
