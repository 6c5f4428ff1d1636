package repository

import (
	"context"

	"github.com/shoply/shoply-api/internal/domain/entity"
)

// PasswordResetRepository persists pending reset claims. Used records are
// kept (never reusable) until the retention TTL removes them.
type PasswordResetRepository interface {
	// Put stores the record with a fresh retention TTL, replacing any prior
	// record for the same email.
	Put(ctx context.Context, r *entity.PasswordReset) error
	Get(ctx context.Context, id string) (*entity.PasswordReset, error)
	// GetByEmail returns the current record for the email, used for the
	// request cooldown.
	GetByEmail(ctx context.Context, email string) (*entity.PasswordReset, error)
	// Update overwrites the record preserving its remaining retention TTL.
	Update(ctx context.Context, r *entity.PasswordReset) error
}
