package picture

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-builder/adapters/media_storage"
	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

type fakeUploader struct {
	uploaded map[string]string
	deleted  []string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[folder+"/"+publicID] = string(b)
	return "https://cdn.example.com/" + folder + "/" + publicID, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func newUseCase(t *testing.T) (*MirrorPictureUseCase, service.AssetStore, *fakeUploader) {
	t.Helper()
	store, err := media_storage.NewLocalDiskAdapter(t.TempDir())
	require.NoError(t, err)
	up := &fakeUploader{}
	return NewMirrorPictureUseCase(store, up, logger.NewNop()), store, up
}

func TestMirror_UploadsStoredPicture(t *testing.T) {
	ctx := context.Background()
	uc, store, up := newUseCase(t)
	_, err := store.Save(ctx, "profile-picture-1.png", strings.NewReader("png"))
	require.NoError(t, err)

	err = uc.Execute(ctx, service.ProfileEventPayload{
		EventType:  service.EventPictureUploaded,
		ProfileKey: "current",
		Filename:   "profile-picture-1.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "png", up.uploaded["profile/pictures/profile-picture"])
}

func TestMirror_MissingFileIsSkipped(t *testing.T) {
	uc, _, up := newUseCase(t)

	err := uc.Execute(context.Background(), service.ProfileEventPayload{
		EventType: service.EventPictureUploaded,
		Filename:  "profile-picture-9.png",
	})
	require.NoError(t, err)
	assert.Empty(t, up.uploaded)
}

func TestMirror_DeleteDestroysRemoteCopy(t *testing.T) {
	uc, _, up := newUseCase(t)

	require.NoError(t, uc.Execute(context.Background(), service.ProfileEventPayload{EventType: service.EventPictureDeleted}))
	assert.Equal(t, []string{"profile/pictures/profile-picture"}, up.deleted)
}

func TestMirror_UploaderFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	uc, store, up := newUseCase(t)
	up.err = errors.New("cdn down")
	_, err := store.Save(ctx, "profile-picture-1.png", strings.NewReader("png"))
	require.NoError(t, err)

	err = uc.Execute(ctx, service.ProfileEventPayload{EventType: service.EventPictureUploaded, Filename: "profile-picture-1.png"})
	assert.ErrorContains(t, err, "cdn down")
}

func TestMirror_OtherEventsIgnored(t *testing.T) {
	uc, _, up := newUseCase(t)

	require.NoError(t, uc.Execute(context.Background(), service.ProfileEventPayload{EventType: service.EventSkillAdded}))
	assert.Empty(t, up.uploaded)
	assert.Empty(t, up.deleted)
}
