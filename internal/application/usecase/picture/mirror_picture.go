package picture

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

const (
	MirrorFolder   = "profile/pictures"
	MirrorPublicID = "profile-picture"
)

// MirrorPictureUseCase keeps a CDN copy of the current profile picture in step with
// the local upload directory.
type MirrorPictureUseCase struct {
	assets   service.AssetStore
	uploader service.Uploader
	logger   logger.Logger
}

func NewMirrorPictureUseCase(assets service.AssetStore, uploader service.Uploader, log logger.Logger) *MirrorPictureUseCase {
	return &MirrorPictureUseCase{assets: assets, uploader: uploader, logger: log}
}

// Execute returns an error only when the event should be retried.
func (uc *MirrorPictureUseCase) Execute(ctx context.Context, payload service.ProfileEventPayload) error {
	switch payload.EventType {
	case service.EventPictureUploaded:
		return uc.mirror(ctx, payload)
	case service.EventPictureDeleted:
		if err := uc.uploader.Delete(ctx, MirrorFolder+"/"+MirrorPublicID); err != nil {
			return fmt.Errorf("delete mirrored picture failed: %w", err)
		}
		uc.logger.Info("Removed mirrored profile picture", zap.String("profile_key", payload.ProfileKey))
		return nil
	default:
		uc.logger.Debug("Ignoring profile event",
			zap.String("event_type", string(payload.EventType)),
			zap.String("profile_key", payload.ProfileKey))
		return nil
	}
}

func (uc *MirrorPictureUseCase) mirror(ctx context.Context, payload service.ProfileEventPayload) error {
	if payload.Filename == "" {
		uc.logger.Warn("Picture event without filename, skip", zap.String("profile_key", payload.ProfileKey))
		return nil
	}

	file, err := uc.assets.Open(ctx, payload.Filename)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Replaced or deleted before we got to it; a later event covers the new state.
			uc.logger.Warn("Picture no longer on disk, skip", zap.String("filename", payload.Filename))
			return nil
		}
		return fmt.Errorf("open picture failed: %w", err)
	}
	defer file.Close()

	url, err := uc.uploader.Upload(ctx, file, MirrorFolder, MirrorPublicID)
	if err != nil {
		return fmt.Errorf("mirror picture failed: %w", err)
	}

	uc.logger.Info("Mirrored profile picture",
		zap.String("filename", payload.Filename),
		zap.String("url", url))
	return nil
}
