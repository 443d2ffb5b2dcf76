package storage

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// Bucket layout used when assets are served from object storage.
const (
	IndexKey     = "index.html"
	PublicPrefix = "public/"
)

// SyncDir uploads every regular file under dir into s, keyed by prefix plus
// the slash-separated relative path. It returns the number of files uploaded.
func SyncDir(ctx context.Context, s *Storage, dir, prefix string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if err := SyncFile(ctx, s, p, prefix+filepath.ToSlash(rel)); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	return uploaded, err
}

// SyncFile uploads a single local file under key.
func SyncFile(ctx context.Context, s *Storage, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.Put(ctx, key, f, info.Size(), contentType)
}
