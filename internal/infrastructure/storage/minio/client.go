// Package minio stores bulk-load datasets in an S3-compatible bucket.
package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/mini-spade/internal/config"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used by the dataset store.
// GetObject is left out because *minio.Object cannot be built outside the
// SDK; reads go through an ObjectOpener instead.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// ObjectOpener streams an object's content.
type ObjectOpener func(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)

// MinIOClient binds the SDK client to the configured dataset bucket.
type MinIOClient struct {
	api    MinIOAPI
	open   ObjectOpener
	bucket string
	region string
	logger logging.Logger
}

// NewMinIOClient connects to cfg.Endpoint and makes sure the dataset bucket
// exists.
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to create minio client")
	}

	open := func(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
		return client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	}
	c := NewMinIOClientWithAPI(client, open, cfg.Bucket, cfg.Region, log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(initCtx); err != nil {
		return nil, err
	}

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return c, nil
}

// NewMinIOClientWithAPI wires a client from its parts (tests).
func NewMinIOClientWithAPI(api MinIOAPI, open ObjectOpener, bucket, region string, log logging.Logger) *MinIOClient {
	return &MinIOClient{api: api, open: open, bucket: bucket, region: region, logger: log}
}

// Bucket returns the dataset bucket name.
func (c *MinIOClient) Bucket() string { return c.bucket }

// EnsureBucket creates the dataset bucket when it is missing.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to check bucket existence").
			WithDetail("bucket=" + c.bucket)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to create bucket").
			WithDetail("bucket=" + c.bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	return nil
}

// HealthCheck verifies the bucket is reachable.
func (c *MinIOClient) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "minio health check failed")
	}
	return nil
}

//Personal.AI order the ending
