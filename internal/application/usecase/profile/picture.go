package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/metrics"
)

// sniffLen covers every signature on the picture allow-list.
const sniffLen = 512

var (
	ErrPictureTooLarge   = errors.New("file too large, maximum size is 5MB")
	ErrPictureNotAllowed = errors.New("only image files (jpeg, jpg, png, gif, webp) are allowed")
)

type UploadPictureInput struct {
	File         io.Reader
	OriginalName string
	Size         int64
}

type UploadPictureOutput struct {
	Filename string
	Profile  *profile.Profile
}

// ExecuteUploadPicture stores a new picture and points the profile at it. The new file
// is removed again on any failure before the profile is persisted; older picture files
// are removed only after it is.
func (uc *ProfileUseCase) ExecuteUploadPicture(ctx context.Context, input UploadPictureInput) (*UploadPictureOutput, error) {
	if input.Size > uc.maxPictureBytes {
		return nil, apperror.NewInvalidInput("picture rejected", ErrPictureTooLarge)
	}
	declared, ok := profile.PictureMIMEType(input.OriginalName)
	if !ok {
		return nil, apperror.NewInvalidInput("picture rejected", ErrPictureNotAllowed)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.NewInternal("failed to read picture", err)
	}
	head = head[:n]
	sniffed := mimetype.Detect(head)
	if !profile.IsAllowedPictureMIME(sniffed.String()) {
		uc.logger.Warn("Rejected picture with mismatched content",
			zap.String("declared", declared), zap.String("detected", sniffed.String()))
		return nil, apperror.NewInvalidInput("picture rejected", ErrPictureNotAllowed)
	}

	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("upload picture failed: %w", err)
	}

	filename := profile.PictureFilename(input.OriginalName, uc.now())
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), input.File), uc.maxPictureBytes+1)

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := uc.assets.Remove(context.Background(), filename); err != nil {
			uc.logger.Error("Failed to remove orphaned picture", err, zap.String("filename", filename))
		}
	}()

	written, err := uc.assets.Save(ctx, filename, body)
	if err != nil {
		return nil, apperror.NewInternal("failed to store picture", err)
	}
	if written > uc.maxPictureBytes {
		return nil, apperror.NewInvalidInput("picture rejected", ErrPictureTooLarge)
	}

	p.SetPicture(filename)
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("upload picture failed: %w", err)
	}
	committed = true

	uc.removePictures(ctx, filename)
	metrics.ObservePictureUpload(written)
	uc.publish(key, service.EventPictureUploaded, "", filename)

	return &UploadPictureOutput{Filename: filename, Profile: p}, nil
}

type DeletePictureOutput struct {
	Profile *profile.Profile
}

// ExecuteDeletePicture clears the picture. Deleting when none exists succeeds.
func (uc *ProfileUseCase) ExecuteDeletePicture(ctx context.Context) (*DeletePictureOutput, error) {
	key := uc.keyFor(ctx)
	p, err := uc.profileRepo.FindOrCreate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("delete picture failed: %w", err)
	}

	var previous string
	if p.ProfilePicture != nil {
		previous = *p.ProfilePicture
	}
	p.ClearPicture()
	if err := uc.profileRepo.Save(ctx, key, p); err != nil {
		return nil, fmt.Errorf("delete picture failed: %w", err)
	}

	removed := uc.removePictures(ctx, "")
	if previous != "" || removed > 0 {
		uc.publish(key, service.EventPictureDeleted, "", previous)
	}
	return &DeletePictureOutput{Profile: p}, nil
}

// removePictures deletes every stored picture except keep and returns how many went.
// Failures are logged; GET resolves the picture from disk, so leftovers are visible.
func (uc *ProfileUseCase) removePictures(ctx context.Context, keep string) int {
	names, err := uc.assets.List(ctx, profile.PicturePrefix)
	if err != nil {
		uc.logger.Error("Failed to list stored pictures", err)
		return 0
	}

	removed := 0
	for _, name := range names {
		if name == keep {
			continue
		}
		if err := uc.assets.Remove(ctx, name); err != nil {
			uc.logger.Error("Failed to remove old picture", err, zap.String("filename", name))
			continue
		}
		removed++
	}
	return removed
}
