package repository

import (
	"context"
	"errors"

	"github.com/shoply/shoply-api/internal/domain/entity"
)

// Sentinel errors shared by all store implementations.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines the credential store. Implementations lowercase
// emails before storing and querying.
type UserRepository interface {
	// Create inserts the user and fills ID/CreatedAt/UpdatedAt. Returns
	// ErrDuplicateEmail if the email is already registered (probed before
	// insert; the uniqueness constraint backstops the race).
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// SetRefreshTokenHash overwrites the stored hash; nil clears it.
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) error
	// UpdateProfile persists the mutable profile fields of u.
	UpdateProfile(ctx context.Context, u *entity.User) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}
