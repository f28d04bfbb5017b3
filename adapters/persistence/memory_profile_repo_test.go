package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
)

func TestMemoryRepo_GetMissing(t *testing.T) {
	repo := NewMemoryProfileRepo()

	_, err := repo.Get(context.Background(), profile.CurrentKey)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMemoryRepo_FindOrCreateIsSingleton(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProfileRepo()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.FindOrCreate(ctx, profile.CurrentKey)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mem := repo.(*memoryProfileRepo)
	assert.Len(t, mem.profiles, 1)
}

func TestMemoryRepo_SaveAssignsIDsAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProfileRepo()

	p, err := repo.FindOrCreate(ctx, profile.CurrentKey)
	require.NoError(t, err)
	createdAt := p.CreatedAt

	p.AddEducation(profile.Education{Degree: "BS", College: "MIT", Year: "2020"})
	require.NoError(t, repo.Save(ctx, profile.CurrentKey, p))
	require.NotEmpty(t, p.Education[0].ID)

	stored, err := repo.Get(ctx, profile.CurrentKey)
	require.NoError(t, err)
	assert.Equal(t, p.Education[0].ID, stored.Education[0].ID)
	assert.Equal(t, createdAt, stored.CreatedAt)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProfileRepo()

	p, err := repo.FindOrCreate(ctx, profile.CurrentKey)
	require.NoError(t, err)
	p.FullName = "unsaved"

	again, err := repo.Get(ctx, profile.CurrentKey)
	require.NoError(t, err)
	assert.Empty(t, again.FullName)
}
