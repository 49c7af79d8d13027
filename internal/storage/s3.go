package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage implements ObjectStorage for AWS S3.
type S3Storage struct {
	client     *s3.Client
	bucket     string
	maxRetries int
}

// S3Config holds configuration for S3 storage.
type S3Config struct {
	// Region is the AWS region for the S3 bucket.
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// DefaultS3Config returns the default S3 configuration.
func DefaultS3Config() S3Config {
	return S3Config{
		Region: "us-east-1",
	}
}

// NewS3Storage creates a new S3 storage client.
func NewS3Storage(ctx context.Context, bucket string, cfg S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &S3Storage{
		client:     client,
		bucket:     bucket,
		maxRetries: 3,
	}, nil
}

// NewS3StorageWithClient creates a new S3 storage with a pre-configured client.
func NewS3StorageWithClient(client *s3.Client, bucket string) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     bucket,
		maxRetries: 3,
	}
}

// Put writes data to S3.
func (s *S3Storage) Put(ctx context.Context, objectPath string, data []byte) error {
	err := s.retryWithBackoff(ctx, func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
			Body:   bytes.NewReader(data),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

// Get reads an object from S3.
func (s *S3Storage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	var resp *s3.GetObjectOutput
	err := s.retryWithBackoff(ctx, func() error {
		var getErr error
		resp, getErr = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		if getErr != nil {
			var noSuchKey *types.NoSuchKey
			if errors.As(getErr, &noSuchKey) {
				return ErrObjectNotFound
			}
		}
		return getErr
	})
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return data, nil
}

// Exists checks if an object exists in S3.
func (s *S3Storage) Exists(ctx context.Context, objectPath string) (bool, error) {
	var exists bool
	err := s.retryWithBackoff(ctx, func() error {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		if err != nil {
			var notFound *types.NotFound
			if errors.As(err, &notFound) {
				exists = false
				return nil
			}
			return err
		}
		exists = true
		return nil
	})

	return exists, err
}

// Delete removes an object from S3.
func (s *S3Storage) Delete(ctx context.Context, objectPath string) error {
	err := s.retryWithBackoff(ctx, func() error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// ListObjects returns all object paths under the given prefix.
func (s *S3Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var objects []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, aws.ToString(obj.Key))
		}
	}

	return objects, nil
}

// retryWithBackoff executes the operation with exponential backoff retry.
func (s *S3Storage) retryWithBackoff(ctx context.Context, operation func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		// Not-found is definitive, never retried
		if errors.Is(lastErr, ErrObjectNotFound) {
			return lastErr
		}

		if attempt < s.maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
