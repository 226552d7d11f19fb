package s3

import (
	"context"
	"fmt"

	"roomies/internal/infra/storage/local"
)

// Mirror copies every image of a local directory into the bucket and
// returns how many were uploaded.
func Mirror(ctx context.Context, src *local.ImageStore, dst *ImageStore) (int, error) {
	n := 0
	err := src.Walk(func(key string) error {
		obj, err := src.Open(ctx, key)
		if err != nil {
			return err
		}
		defer obj.Body.Close()
		if err := dst.Put(ctx, key, obj.Body, obj.Size, obj.ContentType); err != nil {
			return fmt.Errorf("mirror %s: %w", key, err)
		}
		n++
		return nil
	})
	return n, err
}
