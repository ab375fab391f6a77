package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"taskapi/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
	gate   containerGate
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It does not dial; the bucket is created by EnsureContainer.
func NewMinIO(cfg config.StorageConfig) (Storage, error) {
	mc := cfg.MinIO
	if mc.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if mc.AccessKey == "" || mc.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Container == "" {
		return nil, fmt.Errorf("storage container is required")
	}

	cli, err := minio.New(mc.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(mc.AccessKey, mc.SecretKey, ""),
		Secure:    mc.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &minioStorage{client: cli, bucket: cfg.Container}, nil
}

// EnsureContainer creates the bucket on first success; later calls are free.
func (m *minioStorage) EnsureContainer(ctx context.Context) error {
	return m.gate.do(ctx, m.makeBucket)
}

func (m *minioStorage) makeBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, containerTimeout)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads an object using streaming I/O only (no local disk).
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := m.EnsureContainer(ctx); err != nil {
		return ObjectInfo{}, err
	}
	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, err
	}
	lastModified := info.LastModified
	if lastModified.IsZero() {
		lastModified = time.Now()
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ContentType:  opt.ContentType,
		LastModified: lastModified,
		URL:          m.URL(key),
	}, nil
}

// List walks the bucket recursively. Metadata is requested so the content
// type is available without a stat per object.
func (m *minioStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	if err := m.EnsureContainer(ctx); err != nil {
		return nil, err
	}
	out := make([]ObjectInfo, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Recursive:    true,
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, m.objectInfo(obj))
	}
	return out, nil
}

func (m *minioStorage) objectInfo(obj minio.ObjectInfo) ObjectInfo {
	ct := obj.ContentType
	if ct == "" {
		ct = obj.UserMetadata["content-type"]
	}
	if ct == "" {
		ct = obj.UserMetadata["Content-Type"]
	}
	return ObjectInfo{
		Key:          obj.Key,
		Size:         obj.Size,
		ContentType:  ct,
		LastModified: obj.LastModified,
		URL:          m.URL(obj.Key),
	}
}

// URL returns the path-style address of the object.
func (m *minioStorage) URL(key string) string {
	return m.client.EndpointURL().JoinPath(m.bucket, key).String()
}
