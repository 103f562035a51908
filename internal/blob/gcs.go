package blob

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCS struct {
	client        *storage.Client
	bucket        string
	publicBaseUrl string
}

func NewGCS(ctx context.Context, bucket, credentialsFile, publicBaseUrl string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs: bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	return &GCS{client: client, bucket: bucket, publicBaseUrl: gcsPublicURL(bucket, publicBaseUrl)}, nil
}

func gcsPublicURL(bucket, override string) string {
	if override != "" {
		return override
	}
	return "https://storage.googleapis.com/" + bucket
}

func (g *GCS) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", key, err)
	}

	return joinURL(g.publicBaseUrl, key), nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
