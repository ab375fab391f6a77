package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapi/internal/config"
)

func TestOpen_NotConfigured(t *testing.T) {
	s, backend, err := Open(config.StorageConfig{Container: "uploads"})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, s)
	assert.Empty(t, backend)
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(config.StorageConfig{Container: "uploads"})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewMinIO(config.StorageConfig{Container: "uploads", MinIO: config.MinIOConfig{Endpoint: "localhost:9000"}})
	assert.ErrorContains(t, err, "credentials are required")

	_, err = NewMinIO(config.StorageConfig{MinIO: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}})
	assert.ErrorContains(t, err, "container is required")
}

func TestNewAzureBlob_Validation(t *testing.T) {
	_, err := NewAzureBlob(config.StorageConfig{Container: "uploads"})
	assert.ErrorContains(t, err, "connection string is required")
}

func newTestMinIO(t *testing.T) *minioStorage {
	t.Helper()
	cli, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("key", "secret", ""),
	})
	require.NoError(t, err)
	return &minioStorage{client: cli, bucket: "uploads"}
}

func TestMinIO_URL(t *testing.T) {
	m := newTestMinIO(t)

	assert.Equal(t, "http://localhost:9000/uploads/1700000000000-report.pdf", m.URL("1700000000000-report.pdf"))
}

func TestMinIO_ObjectInfo(t *testing.T) {
	m := newTestMinIO(t)
	now := time.Now()

	info := m.objectInfo(minio.ObjectInfo{
		Key:          "1-a.png",
		Size:         12,
		LastModified: now,
		UserMetadata: minio.StringMap{"content-type": "image/png"},
	})

	assert.Equal(t, "1-a.png", info.Key)
	assert.Equal(t, int64(12), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, now, info.LastModified)
	assert.Equal(t, "http://localhost:9000/uploads/1-a.png", info.URL)
}

func TestAzure_ObjectInfo(t *testing.T) {
	a := &azureStorage{container: "uploads", baseURL: "https://acct.blob.core.windows.net"}
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	info := a.objectInfo(&container.BlobItem{
		Name: to.Ptr("1700-my notes.txt"),
		Properties: &container.BlobProperties{
			ContentLength: to.Ptr(int64(42)),
			ContentType:   to.Ptr("text/plain"),
			CreationTime:  to.Ptr(created),
		},
	})

	assert.Equal(t, "1700-my notes.txt", info.Key)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, created, info.LastModified)
	assert.Equal(t, "https://acct.blob.core.windows.net/uploads/1700-my%20notes.txt", info.URL)
}

func TestAzure_ObjectInfoWithoutProperties(t *testing.T) {
	a := &azureStorage{container: "uploads", baseURL: "https://acct.blob.core.windows.net"}

	info := a.objectInfo(&container.BlobItem{Name: to.Ptr("x")})

	assert.Equal(t, "x", info.Key)
	assert.Zero(t, info.Size)
	assert.True(t, info.LastModified.IsZero())
}

func TestAzureMetadataKey(t *testing.T) {
	assert.Equal(t, "original_filename", azureMetadataKey("original-filename"))
}

func TestOpen_SelectsBackendWithoutDialing(t *testing.T) {
	// Nothing listens on these endpoints; construction must still succeed.
	s, backend, err := Open(config.StorageConfig{
		Container: "uploads",
		MinIO:     config.MinIOConfig{Endpoint: "127.0.0.1:1", AccessKey: "a", SecretKey: "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, "minio", backend)
	assert.NotNil(t, s)

	s, backend, err = Open(config.StorageConfig{
		Container:             "uploads",
		AzureConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:1/devstoreaccount1;",
		MinIO:                 config.MinIOConfig{Endpoint: "127.0.0.1:1", AccessKey: "a", SecretKey: "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, "azure", backend)
	assert.NotNil(t, s)
}

func TestContainerGate(t *testing.T) {
	var g containerGate
	ctx := context.Background()
	calls := 0
	ensure := func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("connection refused")
		}
		return nil
	}

	assert.Error(t, g.do(ctx, ensure))
	assert.NoError(t, g.do(ctx, ensure))
	assert.NoError(t, g.do(ctx, ensure))
	assert.Equal(t, 2, calls)
}
