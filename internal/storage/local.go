package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalDir serves objects from a directory on disk. Keys are slash-separated
// paths relative to the root; keys escaping the root are treated as missing.
type LocalDir struct {
	root string
}

func NewLocalDir(root string) *LocalDir {
	return &LocalDir{root: root}
}

// EnsureBucket creates the root directory when missing.
func (l *LocalDir) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.root, 0o755)
}

func (l *LocalDir) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (l *LocalDir) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

func (l *LocalDir) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	full, err := l.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ObjectInfo{}, ErrObjectNotFound
		}
		return ObjectInfo{}, err
	}
	if info.IsDir() {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return ObjectInfo{
		Key:         key,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(path.Ext(key)),
		ModTime:     info.ModTime(),
	}, nil
}

// Bucket returns the root directory.
func (l *LocalDir) Bucket() string {
	return l.root
}

func (l *LocalDir) resolve(key string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", ErrObjectNotFound
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
