package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	Key         string
	ContentType string
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key string
	URL string
}

// Service stores brand images in remote object storage.
type Service interface {
	UploadImage(ctx context.Context, body io.Reader, opts UploadOptions) (UploadResult, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
