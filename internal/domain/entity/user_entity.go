package entity

import "time"

// Role names assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the aggregate root for the user domain.
// PasswordHash and RefreshTokenHash are bcrypt hashes; RefreshTokenHash is
// nil when the user has no active session.
type User struct {
	ID               string
	Name             string
	Email            string // unique, stored lowercase
	PasswordHash     string
	Phone            string
	AddressLine1     string
	AddressLine2     string
	City             string
	State            string
	PostalCode       string
	Country          string
	Roles            []string
	AvatarURL        string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
