package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/pkg/apperror"
)

type localDiskAdapter struct {
	dir string
}

// NewLocalDiskAdapter stores assets as flat files under dir, creating it if needed.
func NewLocalDiskAdapter(dir string) (service.AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create upload dir %q: %w", dir, err)
	}
	return &localDiskAdapter{dir: dir}, nil
}

func (a *localDiskAdapter) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperror.NewInvalidInput(fmt.Sprintf("invalid asset name %q", name), nil)
	}
	return filepath.Join(a.dir, name), nil
}

// Save writes through a temp file and renames it, so readers never see a partial file.
func (a *localDiskAdapter) Save(_ context.Context, name string, r io.Reader) (int64, error) {
	target, err := a.path(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(a.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return n, fmt.Errorf("failed to write asset %s: %w", name, err)
	}
	// CreateTemp uses 0600; served files must be world-readable.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return n, fmt.Errorf("failed to set asset permissions %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return n, fmt.Errorf("failed to move asset %s into place: %w", name, err)
	}
	return n, nil
}

func (a *localDiskAdapter) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := a.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NewNotFound("asset", name)
	}
	return f, err
}

// Remove is a no-op for files that are already gone.
func (a *localDiskAdapter) Remove(_ context.Context, name string) error {
	p, err := a.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove asset %s: %w", name, err)
	}
	return nil
}

func (a *localDiskAdapter) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	type stored struct {
		name    string
		modTime time.Time
	}
	matches := make([]stored, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		matches = append(matches, stored{name: e.Name(), modTime: info.ModTime()})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].modTime.Equal(matches[j].modTime) {
			return matches[i].name > matches[j].name
		}
		return matches[i].modTime.After(matches[j].modTime)
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names, nil
}
