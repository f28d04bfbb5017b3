package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

// cachedProfileRepo is a read-through, write-through Redis cache in front of another
// repository. Redis failures degrade to the underlying store.
type cachedProfileRepo struct {
	next   profile.Repository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProfileRepo(next profile.Repository, rdb redis.UniversalClient, ttl time.Duration, logger logger.Logger) profile.Repository {
	return &cachedProfileRepo{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func profileCacheKey(key profile.Key) string {
	return "profile:" + string(key)
}

func (r *cachedProfileRepo) Get(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	if p, ok := r.load(ctx, key); ok {
		return p, nil
	}
	p, err := r.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, p)
	return p, nil
}

func (r *cachedProfileRepo) FindOrCreate(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	if p, ok := r.load(ctx, key); ok {
		return p, nil
	}
	p, err := r.next.FindOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, p)
	return p, nil
}

func (r *cachedProfileRepo) Save(ctx context.Context, key profile.Key, p *profile.Profile) error {
	if err := r.next.Save(ctx, key, p); err != nil {
		r.evict(ctx, key)
		return err
	}
	r.store(ctx, key, p)
	return nil
}

func (r *cachedProfileRepo) load(ctx context.Context, key profile.Key) (*profile.Profile, bool) {
	raw, err := r.rdb.Get(ctx, profileCacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Profile cache read failed", zap.String("profile_key", string(key)), zap.Error(err))
		}
		return nil, false
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(raw, p); err != nil {
		r.logger.Warn("Dropping undecodable cached profile", zap.String("profile_key", string(key)), zap.Error(err))
		r.evict(ctx, key)
		return nil, false
	}
	p.Normalize()
	return p, true
}

func (r *cachedProfileRepo) store(ctx context.Context, key profile.Key, p *profile.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		r.logger.Warn("Failed to encode profile for cache", zap.Error(err))
		return
	}
	if err := r.rdb.Set(ctx, profileCacheKey(key), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("Profile cache write failed", zap.String("profile_key", string(key)), zap.Error(err))
	}
}

func (r *cachedProfileRepo) evict(ctx context.Context, key profile.Key) {
	if err := r.rdb.Del(ctx, profileCacheKey(key)).Err(); err != nil {
		r.logger.Warn("Profile cache evict failed", zap.String("profile_key", string(key)), zap.Error(err))
	}
}
