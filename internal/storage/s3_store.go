package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/files"
)

const ctxTimeout = 30 * time.Second

// S3Config describes an S3-compatible endpoint. Endpoint may carry an
// http:// or https:// scheme, which then overrides UseSSL.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// S3Store implements Store on top of a MinIO client.
type S3Store struct {
	client *minio.Client
}

func NewS3Store(config S3Config) (*S3Store, error) {
	endpoint, secure := splitEndpoint(config.Endpoint, config.UseSSL)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: no S3 endpoint configured", kerrors.ErrStorageUnavailable)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: secure,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create MinIO client: %v", kerrors.ErrStorageUnavailable, err)
	}

	return &S3Store{client: client}, nil
}

func (s *S3Store) Read(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ctxTimeout)
	defer cancel()

	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapError(location, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, s.wrapError(location, err)
	}
	return data, nil
}

// Open streams an object. No timeout is applied beyond the caller's ctx.
func (s *S3Store) Open(ctx context.Context, location string) (io.ReadCloser, int64, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, 0, err
	}

	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, s.wrapError(location, err)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, 0, s.wrapError(location, err)
	}
	return object, info.Size, nil
}

func (s *S3Store) Write(ctx context.Context, location string, data []byte) error {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, ctxTimeout)
	defer cancel()

	if err := s.ensureBucket(ctx, bucket); err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return s.wrapError(location, err)
	}
	return nil
}

func (s *S3Store) Exists(ctx context.Context, location string) (bool, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, ctxTimeout)
	defer cancel()

	_, err = s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFoundError(err) {
		return false, nil
	}
	return false, s.wrapError(location, err)
}

func (s *S3Store) Type() string {
	return StoreTypeS3
}

func (s *S3Store) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket %s: %v", kerrors.ErrStorageUnavailable, bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: failed to create bucket %s: %v", kerrors.ErrStorageUnavailable, bucket, err)
		}
	}
	return nil
}

func (s *S3Store) wrapError(location string, err error) error {
	if isNotFoundError(err) {
		return notFound(location)
	}
	return fmt.Errorf("%w: %s: %v", kerrors.ErrStorageUnavailable, location, err)
}

// ParseLocation splits s3://bucket/key.
func ParseLocation(location string) (bucket, key string, err error) {
	if !files.IsRemote(location) {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	rest := strings.TrimPrefix(location, files.RemotePrefix)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location %q must look like s3://bucket/key", location)
	}
	return bucket, key, nil
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), useSSL
	}
}

func isNotFoundError(err error) bool {
	var errResp minio.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" || errResp.Code == "NotFound"
	}
	return false
}
