package streetview

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
)

// Sink stores downloaded images under a name like
// "12_34_0_0_h0.jpg" and reports whether a name already exists, so
// interrupted downloads can resume without re-fetching.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Exists(ctx context.Context, name string) bool
	// Path returns the stored path for name, the same value Put
	// would have returned.
	Path(name string) string
}

// DirSink writes images to a local directory.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Put(_ context.Context, name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}
	return path, nil
}

func (s *DirSink) Exists(_ context.Context, name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

func (s *DirSink) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// ObjectSink uploads images to an s3-compatible bucket.
type ObjectSink struct {
	client *minio.Client
	bucket string
}

func NewObjectSink(ctx context.Context, client *minio.Client, bucket string) (*ObjectSink, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &ObjectSink{client: client, bucket: bucket}, nil
}

func (s *ObjectSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", name, err)
	}
	return s.Path(name), nil
}

func (s *ObjectSink) Exists(ctx context.Context, name string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	return err == nil
}

func (s *ObjectSink) Path(name string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, name)
}
