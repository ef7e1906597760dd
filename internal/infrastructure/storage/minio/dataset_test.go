package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/mini-spade/pkg/errors"
)

type DatasetStoreTestSuite struct {
	suite.Suite
	api   *MockMinIOAPI
	store *DatasetStore
	ctx   context.Context
}

func (s *DatasetStoreTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	client := newTestClient(s.api, map[string]string{"datasets/patents.json": `[{"id":"US-1"}]`})
	s.store = NewDatasetStore(client, logging.NewNopLogger())
	s.ctx = context.Background()
}

func (s *DatasetStoreTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func TestDatasetStoreTestSuite(t *testing.T) {
	suite.Run(t, new(DatasetStoreTestSuite))
}

func (s *DatasetStoreTestSuite) TestOpen_Success() {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.api.On("StatObject", mock.Anything, "spade-datasets", "datasets/patents.json", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{Key: "datasets/patents.json", Size: 16, ETag: "abc", LastModified: modified}, nil).Once()

	rc, info, err := s.store.Open(s.ctx, "datasets/patents.json")
	s.Require().NoError(err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal(`[{"id":"US-1"}]`, string(body))
	s.Equal(int64(16), info.Size)
	s.Equal(modified, info.LastModified)
}

func (s *DatasetStoreTestSuite) TestOpen_NotFound() {
	s.api.On("StatObject", mock.Anything, "spade-datasets", "missing.json", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}).Once()

	rc, info, err := s.store.Open(s.ctx, "missing.json")
	s.Nil(rc)
	s.Nil(info)
	s.ErrorIs(err, ErrDatasetNotFound)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *DatasetStoreTestSuite) TestOpen_InvalidKey() {
	for _, key := range []string{"", "  ", "/abs.json"} {
		_, _, err := s.store.Open(s.ctx, key)
		s.True(pkgerrors.IsInvalidParam(err), key)
	}
}

func (s *DatasetStoreTestSuite) TestStat_BackendFailure() {
	s.api.On("StatObject", mock.Anything, "spade-datasets", "a.json", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, errors.New("connection reset")).Once()

	_, err := s.store.Stat(s.ctx, "a.json")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeDataSourceUnavailable))
}

func (s *DatasetStoreTestSuite) TestUpload() {
	body := strings.NewReader(`[]`)
	s.api.On("PutObject", mock.Anything, "spade-datasets", "new.json", body, int64(2),
		minio.PutObjectOptions{ContentType: "application/json"}).
		Return(minio.UploadInfo{Key: "new.json", Size: 2, ETag: "e1"}, nil).Once()

	info, err := s.store.Upload(s.ctx, "new.json", body, 2)
	s.Require().NoError(err)
	s.Equal("new.json", info.Key)
	s.Equal("e1", info.ETag)
}

func (s *DatasetStoreTestSuite) TestList() {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "datasets/a.json", Size: 10}
	ch <- minio.ObjectInfo{Key: "datasets/b.json", Size: 20}
	close(ch)
	s.api.On("ListObjects", mock.Anything, "spade-datasets", minio.ListObjectsOptions{Prefix: "datasets/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch)).Once()

	list, err := s.store.List(s.ctx, "datasets/")
	s.Require().NoError(err)
	s.Len(list, 2)
	s.Equal("datasets/b.json", list[1].Key)
}

func (s *DatasetStoreTestSuite) TestList_Error() {
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	s.api.On("ListObjects", mock.Anything, "spade-datasets", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch)).Once()

	_, err := s.store.List(s.ctx, "")
	s.Error(err)
}

func (s *DatasetStoreTestSuite) TestDelete() {
	s.api.On("RemoveObject", mock.Anything, "spade-datasets", "old.json", minio.RemoveObjectOptions{}).Return(nil).Once()
	s.NoError(s.store.Delete(s.ctx, "old.json"))
}

//Personal.AI order the ending
