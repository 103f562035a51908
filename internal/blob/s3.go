package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3 struct {
	client        *s3.Client
	bucket        string
	publicBaseUrl string
}

func NewS3(ctx context.Context, bucket, region, publicBaseUrl string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return &S3{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseUrl: s3PublicURL(bucket, cfg.Region, publicBaseUrl),
	}, nil
}

func s3PublicURL(bucket, region, override string) string {
	if override != "" {
		return override
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}

	return joinURL(s.publicBaseUrl, key), nil
}

func (s *S3) Close() error {
	return nil
}
