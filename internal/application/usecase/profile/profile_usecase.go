package profile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
	"github.com/khoahotran/profile-builder/pkg/metrics"
)

type ProfileUseCase struct {
	profileRepo     profile.Repository
	assets          service.AssetStore
	publisher       service.EventPublisher
	logger          logger.Logger
	keyFor          profile.KeyFunc
	now             func() time.Time
	maxPictureBytes int64
}

type Option func(*ProfileUseCase)

// WithKeyFunc overrides how the target profile is derived from a request.
func WithKeyFunc(fn profile.KeyFunc) Option {
	return func(uc *ProfileUseCase) { uc.keyFor = fn }
}

func WithClock(now func() time.Time) Option {
	return func(uc *ProfileUseCase) { uc.now = now }
}

// WithMaxPictureBytes lowers or raises the upload limit. Non-positive values are ignored.
func WithMaxPictureBytes(n int64) Option {
	return func(uc *ProfileUseCase) {
		if n > 0 {
			uc.maxPictureBytes = n
		}
	}
}

func NewProfileUseCase(
	repo profile.Repository,
	assets service.AssetStore,
	publisher service.EventPublisher,
	log logger.Logger,
	opts ...Option,
) *ProfileUseCase {
	uc := &ProfileUseCase{
		profileRepo:     repo,
		assets:          assets,
		publisher:       publisher,
		logger:          log,
		keyFor:          profile.CurrentProfile,
		now:             time.Now,
		maxPictureBytes: profile.MaxPictureBytes,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteGetProfile returns the profile, creating an empty one on first access.
// The picture field reflects what is on disk, not the stored pointer.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.FindOrCreate(ctx, uc.keyFor(ctx))
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}

	names, err := uc.assets.List(ctx, profile.PicturePrefix)
	if err != nil {
		return nil, fmt.Errorf("resolve profile picture failed: %w", err)
	}
	if len(names) > 0 {
		p.SetPicture(names[0])
	} else {
		p.ClearPicture()
	}

	return &GetProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	Patch profile.Patch
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
	Changed bool
}

// ExecuteUpdateProfile merges the provided scalar and link fields into the profile.
func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	changed := p.Apply(input.Patch)
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	if changed {
		uc.publish(key, service.EventProfileUpdated, "", "")
	}
	return &UpdateProfileOutput{Profile: p, Changed: changed}, nil
}

func (uc *ProfileUseCase) publish(key profile.Key, eventType service.ProfileEventType, entryID, filename string) {
	payload := service.ProfileEventPayload{
		EventType:  eventType,
		ProfileKey: string(key),
		EntryID:    entryID,
		Filename:   filename,
		OccurredAt: uc.now().UTC(),
	}

	go func() {
		err := uc.publisher.PublishProfileEvent(context.Background(), payload)
		metrics.CountEvent(string(eventType), err)
		if err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(eventType)),
				zap.String("profile_key", string(key)),
			)
		}
	}()
}
