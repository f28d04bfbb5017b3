package service

import (
	"context"
	"io"
)

// AssetStore is the directory holding uploaded profile assets.
type AssetStore interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
	// List returns stored names starting with prefix, newest first.
	List(ctx context.Context, prefix string) ([]string, error)
}
