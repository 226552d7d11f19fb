package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"

	"roomies/internal/infra/storage"
)

// ImageStore serves images from a directory on disk.
type ImageStore struct {
	root *os.Root
}

func NewImageStore(dir string) (*ImageStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("local: open image dir: %w", err)
	}
	return &ImageStore{root: root}, nil
}

func (s *ImageStore) Open(ctx context.Context, name string) (*storage.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, ok := storage.CleanKey(name)
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, fmt.Errorf("local: open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("local: stat %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(path.Ext(key)),
		ModTime:     info.ModTime(),
	}, nil
}

// Walk lists every file under the root with its key.
func (s *ImageStore) Walk(fn func(key string) error) error {
	return fs.WalkDir(s.root.FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(p)
	})
}

func (s *ImageStore) Close() error {
	return s.root.Close()
}
