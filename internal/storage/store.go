package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/files"
)

const (
	StoreTypeFileSystem = "filesystem"
	StoreTypeS3         = "s3"
)

// Store moves whole files in and out of a backend. Envelopes are small
// enough to be handled in memory.
type Store interface {
	// Read returns the full content at location. A missing location yields
	// an error matching errors.ErrFileNotFound.
	Read(ctx context.Context, location string) ([]byte, error)

	// Open streams the content at location and reports its size. Used when
	// only the header is needed.
	Open(ctx context.Context, location string) (io.ReadCloser, int64, error)

	// Write replaces the content at location.
	Write(ctx context.Context, location string, data []byte) error

	// Exists reports whether location is present.
	Exists(ctx context.Context, location string) (bool, error)

	// Type returns StoreTypeFileSystem or StoreTypeS3.
	Type() string
}

// Router hands out the store responsible for a location.
type Router struct {
	local *FileStore
	s3cfg S3Config

	mu sync.Mutex
	s3 *S3Store
}

// NewRouter returns a router whose S3 store, if ever needed, uses cfg.
func NewRouter(cfg S3Config) *Router {
	return &Router{local: NewFileStore(), s3cfg: cfg}
}

// For returns the store for location.
func (r *Router) For(location string) (Store, error) {
	if !files.IsRemote(location) {
		return r.local, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.s3 == nil {
		s, err := NewS3Store(r.s3cfg)
		if err != nil {
			return nil, err
		}
		r.s3 = s
	}
	return r.s3, nil
}

// ForLocation is a one-shot Router.For.
func ForLocation(location string, cfg S3Config) (Store, error) {
	return NewRouter(cfg).For(location)
}

func notFound(location string) error {
	return fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, location)
}
