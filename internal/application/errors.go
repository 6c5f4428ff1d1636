package application

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// Unauthorized: signin with unknown email or wrong password. The message
	// is identical in both cases so the response never reveals which failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Forbidden: refresh with a missing, stale, or mismatched refresh token.
	ErrAccessDenied = errors.New("access denied")

	// Conflict
	ErrEmailTaken     = errors.New("email already in use")
	ErrResendCooldown = errors.New("please wait before requesting a new code")

	// BadRequest
	ErrInvalidVerification = errors.New("invalid or expired verification")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrInvalidCode         = errors.New("invalid code")
	ErrInvalidReset        = errors.New("invalid or expired reset link")

	// NotFound
	ErrUserNotFound         = errors.New("user not found")
	ErrVerificationNotFound = errors.New("verification not found")
)
