package minio

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/pkg/errors"
)

var (
	ErrDatasetNotFound = errors.New(errors.ErrCodeNotFound, "dataset object not found")
	ErrInvalidKey      = errors.New(errors.ErrCodeValidation, "invalid dataset key")
)

const datasetContentType = "application/json"

// DatasetInfo describes a stored dataset object.
type DatasetInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"lastModified"`
}

// DatasetStore reads and writes JSON patent datasets in the dataset bucket.
type DatasetStore struct {
	client *MinIOClient
	logger logging.Logger
}

func NewDatasetStore(client *MinIOClient, log logging.Logger) *DatasetStore {
	return &DatasetStore{client: client, logger: log}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey.WithDetail("key=" + key)
	}
	return nil
}

// Open stats the object and returns a reader over its content.  The caller
// closes the reader.
func (s *DatasetStore) Open(ctx context.Context, key string) (io.ReadCloser, *DatasetInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, nil, err
	}
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.client.open(ctx, s.client.bucket, key)
	if err != nil {
		return nil, nil, mapError(err, key, "failed to open dataset")
	}
	s.logger.Info("Opened dataset",
		logging.String("bucket", s.client.bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)
	return rc, info, nil
}

func (s *DatasetStore) Stat(ctx context.Context, key string) (*DatasetInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	oi, err := s.client.api.StatObject(ctx, s.client.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, key, "failed to stat dataset")
	}
	return toInfo(oi), nil
}

// Upload stores r under key.  size may be -1 when unknown.
func (s *DatasetStore) Upload(ctx context.Context, key string, r io.Reader, size int64) (*DatasetInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	ui, err := s.client.api.PutObject(ctx, s.client.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: datasetContentType,
	})
	if err != nil {
		return nil, mapError(err, key, "failed to upload dataset")
	}
	s.logger.Info("Uploaded dataset", logging.String("key", key), logging.Int64("size", ui.Size))
	return &DatasetInfo{Key: ui.Key, Size: ui.Size, ETag: ui.ETag, LastModified: ui.LastModified}, nil
}

// List returns the datasets under prefix, recursively.
func (s *DatasetStore) List(ctx context.Context, prefix string) ([]DatasetInfo, error) {
	var out []DatasetInfo
	for oi := range s.client.api.ListObjects(ctx, s.client.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if oi.Err != nil {
			return nil, errors.Wrap(oi.Err, errors.ErrCodeDataSourceUnavailable, "failed to list datasets")
		}
		out = append(out, *toInfo(oi))
	}
	return out, nil
}

func (s *DatasetStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.api.RemoveObject(ctx, s.client.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapError(err, key, "failed to delete dataset")
	}
	return nil
}

func toInfo(oi minio.ObjectInfo) *DatasetInfo {
	return &DatasetInfo{Key: oi.Key, Size: oi.Size, ETag: oi.ETag, LastModified: oi.LastModified}
}

func mapError(err error, key, msg string) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return ErrDatasetNotFound.WithDetail("key=" + key).WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, msg).WithDetail("key=" + key)
}

//Personal.AI order the ending
