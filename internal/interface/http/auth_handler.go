package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/internal/application"
	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/interface/middleware"
	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/response"
	"github.com/shoply/shoply-api/pkg/validation"
)

// AuthHandler maps the auth HTTP surface onto the auth workflow and owns the
// refresh-token cookie.
type AuthHandler struct {
	Auth    *application.AuthService
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(auth *application.AuthService, jwt *helpers.JWTManager, logger *logrus.Logger, cookies *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Auth: auth, JWT: jwt, Logger: logger, Cookies: cookies}
}

type signupRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,pwd"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

func (r signupRequest) toInput() application.SignupInput {
	return application.SignupInput{
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		Phone:        r.Phone,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
	}
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyConfirmRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
	Code           string `json:"code" binding:"required,len=6,numeric"`
}

type verifyResendRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	ResetID  string `json:"reset_id" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// Signup - POST /api/auth/signup (direct, no verification step)
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, tokens, err := h.Auth.Signup(c.Request.Context(), req.toInput())
	if err != nil {
		failFrom(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken)
	response.Success(c, http.StatusCreated, gin.H{"access_token": tokens.AccessToken}, "signup successful")
}

// SignupInitiate - POST /api/auth/signup/initiate
// Stages the payload behind an emailed code; no user is created yet.
func (h *AuthHandler) SignupInitiate(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Auth.InitiateSignup(c.Request.Context(), req.toInput())
	if err != nil {
		failFrom(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"verification_id": v.ID,
		"email":           v.Email,
		"expires_at":      v.ExpiresAt.UTC().Format(time.RFC3339),
		"ttl_sec":         int(time.Until(v.ExpiresAt).Seconds()),
	}, "verification code sent")
}

// VerifyConfirm - POST /api/auth/verify/confirm
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, tokens, err := h.Auth.ConfirmVerification(c.Request.Context(), req.VerificationID, req.Code)
	if err != nil {
		failFrom(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{"access_token": tokens.AccessToken}, "email verified")
}

// VerifyResend - POST /api/auth/verify/request
func (h *AuthHandler) VerifyResend(c *gin.Context) {
	var req verifyResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Auth.Verifications.Resend(c.Request.Context(), req.VerificationID)
	if err != nil {
		failFrom(c, err)
		return
	}
	data := gin.H{"ok": true}
	// Non-local kinds no-op; only a real resend carries a fresh expiry.
	if v.Kind == entity.VerificationLocal {
		data["expires_at"] = v.ExpiresAt.UTC().Format(time.RFC3339)
		data["ttl_sec"] = int(time.Until(v.ExpiresAt).Seconds())
	}
	response.Success(c, http.StatusOK, data, "verification code resent")
}

// Signin - POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, tokens, err := h.Auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFrom(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{"access_token": tokens.AccessToken}, "signin successful")
}

// Refresh - POST /api/auth/refresh, authenticated by the rt cookie only.
// Rotation: the old refresh token is unusable the moment this succeeds.
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented, err := c.Cookie(helpers.RefreshCookieName)
	if err != nil || presented == "" {
		response.Fail(c, http.StatusForbidden, "Access denied", nil)
		return
	}
	claims, err := h.JWT.ParseRefreshToken(presented)
	if err != nil {
		response.Fail(c, http.StatusForbidden, "Access denied", nil)
		return
	}
	tokens, err := h.Auth.RefreshTokens(c.Request.Context(), claims.Subject, presented)
	if err != nil {
		failFrom(c, err)
		return
	}
	h.Cookies.SetRefresh(c, tokens.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{"access_token": tokens.AccessToken}, "token refreshed")
}

// Logout - POST /api/auth/logout (bearer-authenticated)
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Auth.Logout(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("logout failed")
	}
	h.Cookies.ClearRefresh(c)
	response.Success(c, http.StatusOK, gin.H{"success": true}, "logged out")
}

// Me - GET /api/auth/me returns the verified token claims.
func (h *AuthHandler) Me(c *gin.Context) {
	roles, _ := c.Get(middleware.CtxUserRolesKey)
	response.Success(c, http.StatusOK, gin.H{
		"sub":   c.GetString(middleware.CtxUserIDKey),
		"email": c.GetString(middleware.CtxUserEmailKey),
		"roles": roles,
	}, "current user")
}

// ForgotPassword - POST /api/auth/password/forgot
// Always answers ok to avoid account enumeration.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Warn("password reset request failed")
	}
	response.Success(c, http.StatusOK, gin.H{"ok": true}, "if the email exists, a reset link was sent")
}

// ResetPassword - POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.ResetID, req.Token, req.Password); err != nil {
		failFrom(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ok": true}, "password updated")
}
