// Package redisstore backs the short-lived verification and password-reset
// stores with Redis JSON values. Key TTLs are the storage-layer retention
// sweep; the services never delete expired records themselves.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/pkg/helpers"
)

func verifyKey(id string) string { return "auth:verify:" + id }

// verifyEmailKey indexes the single active record per (email, kind).
func verifyEmailKey(kind, email string) string { return "auth:verify:email:" + kind + ":" + email }

type VerificationRepository struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewVerificationRepository(rdb *redis.Client, retention time.Duration) *VerificationRepository {
	return &VerificationRepository{rdb: rdb, retention: retention}
}

func (r *VerificationRepository) Put(ctx context.Context, v *entity.Verification) error {
	idx := verifyEmailKey(v.Kind, v.Email)
	if oldID, err := r.rdb.Get(ctx, idx).Result(); err == nil && oldID != "" && oldID != v.ID {
		_ = r.rdb.Del(ctx, verifyKey(oldID)).Err()
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, verifyKey(v.ID), v, r.retention); err != nil {
		return err
	}
	return r.rdb.Set(ctx, idx, v.ID, r.retention).Err()
}

func (r *VerificationRepository) Get(ctx context.Context, id string) (*entity.Verification, error) {
	var v entity.Verification
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, verifyKey(id), &v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *VerificationRepository) Update(ctx context.Context, v *entity.Verification) error {
	return helpers.RedisSetJSONKeepTTL(ctx, r.rdb, verifyKey(v.ID), v)
}

func (r *VerificationRepository) Delete(ctx context.Context, v *entity.Verification) error {
	return helpers.RedisDel(ctx, r.rdb, verifyKey(v.ID), verifyEmailKey(v.Kind, v.Email))
}

var _ repository.VerificationRepository = (*VerificationRepository)(nil)
