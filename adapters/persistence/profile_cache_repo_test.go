package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

// unreachableRedis fails every command fast, which is the degraded path the cache must survive.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:0",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCachedRepo_FallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryProfileRepo()
	repo := NewCachedProfileRepo(inner, unreachableRedis(t), time.Minute, logger.NewNop())

	p, err := repo.FindOrCreate(ctx, profile.CurrentKey)
	require.NoError(t, err)

	_, err = p.UpsertSkill(profile.Skill{Name: "Go", Rating: 4})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, profile.CurrentKey, p))

	got, err := repo.Get(ctx, profile.CurrentKey)
	require.NoError(t, err)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "Go", got.Skills[0].Name)

	direct, err := inner.Get(ctx, profile.CurrentKey)
	require.NoError(t, err)
	assert.Equal(t, got.Skills[0].ID, direct.Skills[0].ID)
}

func TestProfileCacheKey(t *testing.T) {
	assert.Equal(t, "profile:current", profileCacheKey(profile.CurrentKey))
}
