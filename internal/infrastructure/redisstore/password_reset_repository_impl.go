package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/pkg/helpers"
)

func resetKey(id string) string { return "auth:reset:" + id }

// resetEmailKey indexes the single active record per email.
func resetEmailKey(email string) string { return "auth:reset:email:" + email }

type PasswordResetRepository struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewPasswordResetRepository(rdb *redis.Client, retention time.Duration) *PasswordResetRepository {
	return &PasswordResetRepository{rdb: rdb, retention: retention}
}

func (r *PasswordResetRepository) Put(ctx context.Context, pr *entity.PasswordReset) error {
	idx := resetEmailKey(pr.Email)
	if oldID, err := r.rdb.Get(ctx, idx).Result(); err == nil && oldID != "" && oldID != pr.ID {
		_ = r.rdb.Del(ctx, resetKey(oldID)).Err()
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, resetKey(pr.ID), pr, r.retention); err != nil {
		return err
	}
	return r.rdb.Set(ctx, idx, pr.ID, r.retention).Err()
}

func (r *PasswordResetRepository) Get(ctx context.Context, id string) (*entity.PasswordReset, error) {
	var pr entity.PasswordReset
	ok, err := helpers.RedisGetJSON(ctx, r.rdb, resetKey(id), &pr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pr, nil
}

func (r *PasswordResetRepository) GetByEmail(ctx context.Context, email string) (*entity.PasswordReset, error) {
	id, err := r.rdb.Get(ctx, resetEmailKey(email)).Result()
	if err != nil || id == "" {
		return nil, repository.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *PasswordResetRepository) Update(ctx context.Context, pr *entity.PasswordReset) error {
	return helpers.RedisSetJSONKeepTTL(ctx, r.rdb, resetKey(pr.ID), pr)
}

var _ repository.PasswordResetRepository = (*PasswordResetRepository)(nil)
