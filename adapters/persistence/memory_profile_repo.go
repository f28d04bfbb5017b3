package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
)

// memoryProfileRepo keeps profiles in process. It backs local development and tests.
type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[profile.Key]*profile.Profile
	now      func() time.Time
}

func NewMemoryProfileRepo() profile.Repository {
	return &memoryProfileRepo{
		profiles: make(map[profile.Key]*profile.Profile),
		now:      time.Now,
	}
}

func (r *memoryProfileRepo) Get(_ context.Context, key profile.Key) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[key]
	if !ok {
		return nil, apperror.NewNotFound("profile", string(key))
	}
	return p.Clone(), nil
}

func (r *memoryProfileRepo) FindOrCreate(_ context.Context, key profile.Key) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[key]
	if !ok {
		p = profile.New()
		p.CreatedAt = r.now().UTC()
		p.UpdatedAt = p.CreatedAt
		r.profiles[key] = p
	}
	return p.Clone(), nil
}

func (r *memoryProfileRepo) Save(_ context.Context, key profile.Key, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.Normalize()
	p.AssignIDs(uuid.NewString)
	now := r.now().UTC()
	if existing, ok := r.profiles[key]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.profiles[key] = p.Clone()
	return nil
}
