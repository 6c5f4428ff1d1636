package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoply/shoply-api/internal/application"
	"github.com/shoply/shoply-api/pkg/response"
)

// failFrom maps application sentinel errors to HTTP statuses. Nothing is
// retried server-side; failures surface directly with a short message.
func failFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, application.ErrAccessDenied):
		response.Fail(c, http.StatusForbidden, "Access denied", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, "Email already in use", nil)
	case errors.Is(err, application.ErrResendCooldown):
		response.Fail(c, http.StatusConflict, "Please wait before requesting a new code", nil)
	case errors.Is(err, application.ErrInvalidVerification):
		response.Fail(c, http.StatusBadRequest, "Invalid or expired verification", nil)
	case errors.Is(err, application.ErrTooManyAttempts):
		response.Fail(c, http.StatusBadRequest, "Too many attempts", nil)
	case errors.Is(err, application.ErrInvalidCode):
		response.Fail(c, http.StatusBadRequest, "Invalid code", nil)
	case errors.Is(err, application.ErrInvalidReset):
		response.Fail(c, http.StatusBadRequest, "Invalid or expired reset link", nil)
	case errors.Is(err, application.ErrVerificationNotFound):
		response.Fail(c, http.StatusNotFound, "Verification not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "User not found", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
