package blob

import (
	"context"
	"fmt"
	"strings"

	"imageworld/config"
)

// Store writes immutable blobs and returns the URL clients fetch them from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Close() error
}

func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "local":
		return NewLocal(cfg.BaseDir, cfg.PublicBaseUrl), nil
	case "gcs":
		return NewGCS(ctx, cfg.Bucket, cfg.CredentialsFile, cfg.PublicBaseUrl)
	case "s3":
		return NewS3(ctx, cfg.Bucket, cfg.Region, cfg.PublicBaseUrl)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
