package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2 stores files in a Backblaze B2 bucket.
type B2 struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("get b2 bucket: %w", err)
	}
	return &B2{client: client, bucket: bucket}, nil
}

func (s *B2) object(key string) (*b2.Object, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	return s.bucket.Object(k), nil
}

func (s *B2) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	obj, err := s.object(key)
	if err != nil {
		return 0, err
	}
	w := obj.NewWriter(ctx)
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close writer: %w", err)
	}
	return n, nil
}

func (s *B2) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.object(key)
	if err != nil {
		return nil, err
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if b2.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return obj.NewReader(ctx), nil
}

func (s *B2) Delete(ctx context.Context, key string) error {
	obj, err := s.object(key)
	if err != nil {
		return err
	}
	if err := obj.Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return err
	}
	return nil
}
