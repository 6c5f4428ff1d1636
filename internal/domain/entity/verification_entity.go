package entity

import "time"

// Verification kinds.
const (
	VerificationLocal  = "local"
	VerificationGoogle = "google"
)

// StagedProfile holds signup fields staged on a verification record until the
// code is confirmed; no User row exists before that.
type StagedProfile struct {
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Verification is a pending identity claim: a hashed one-time code paired
// with the staged payload. At most one active record exists per (email, kind).
type Verification struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Kind      string        `json:"kind"`
	CodeHash  string        `json:"code_hash"`
	ExpiresAt time.Time     `json:"expires_at"`
	Attempts  int           `json:"attempts"`
	Payload   StagedProfile `json:"payload"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Expired reports whether the code can no longer be confirmed.
func (v *Verification) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
