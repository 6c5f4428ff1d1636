package repository

import (
	"context"

	"github.com/shoply/shoply-api/internal/domain/entity"
)

// VerificationRepository persists pending identity claims. Records carry a
// storage-level retention TTL; expiry-based cleanup belongs to the store, not
// the workflow.
type VerificationRepository interface {
	// Put stores the record with a fresh retention TTL, replacing any prior
	// record for the same (email, kind).
	Put(ctx context.Context, v *entity.Verification) error
	Get(ctx context.Context, id string) (*entity.Verification, error)
	// Update overwrites the record preserving its remaining retention TTL.
	Update(ctx context.Context, v *entity.Verification) error
	Delete(ctx context.Context, v *entity.Verification) error
}
