package entity

import "time"

// PasswordReset is a pending reset claim: a hashed opaque token for an email.
// At most one active record exists per email; the record survives consumption
// (Used=true) until the retention sweep removes it.
type PasswordReset struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the token can no longer be consumed.
func (r *PasswordReset) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}
