package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys the artifact destination.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service exports trained model artifacts to remote object storage.
type Service interface {
	UploadArtifact(ctx context.Context, name string, body []byte, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
