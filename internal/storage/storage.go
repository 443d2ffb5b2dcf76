package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/exercise-tracker/apiserver/config"
)

// ErrObjectNotFound is returned when a key does not exist in the backend.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored asset.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	CacheControl string
	ModTime      time.Time
}

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// Open builds the asset backend selected by cfg.Backend. The local backend
// serves files from staticDir.
func Open(ctx context.Context, cfg config.StorageConfig, staticDir string) (*Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewStorage(NewLocalDir(staticDir)), nil
	case "minio":
		client, err := NewMinioClient(cfg.Minio, cfg.CacheControl)
		if err != nil {
			return nil, err
		}
		return NewStorage(client), nil
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS, cfg.CacheControl)
		if err != nil {
			return nil, err
		}
		return NewStorage(client), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Stat returns metadata for an object, or ErrObjectNotFound.
func (s *Storage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	return s.backend.Stat(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
