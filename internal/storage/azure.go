package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"taskapi/internal/config"
)

// azureStorage implements Storage on a single Azure Blob container.
type azureStorage struct {
	client    *azblob.Client
	container string
	baseURL   string
	gate      containerGate
}

// NewAzureBlob creates a client from an account connection string. It does
// not dial; the container is created by EnsureContainer.
func NewAzureBlob(cfg config.StorageConfig) (Storage, error) {
	if cfg.AzureConnectionString == "" {
		return nil, fmt.Errorf("azure storage connection string is required")
	}
	if cfg.Container == "" {
		return nil, fmt.Errorf("storage container is required")
	}

	cli, err := azblob.NewClientFromConnectionString(cfg.AzureConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}

	return &azureStorage{
		client:    cli,
		container: cfg.Container,
		baseURL:   strings.TrimRight(cli.URL(), "/"),
	}, nil
}

// EnsureContainer creates the container on first success; later calls are free.
func (a *azureStorage) EnsureContainer(ctx context.Context) error {
	return a.gate.do(ctx, a.createContainer)
}

func (a *azureStorage) createContainer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, containerTimeout)
	defer cancel()

	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container: %w", err)
	}
	return nil
}

// Put streams the payload into a block blob with the declared content type.
func (a *azureStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := a.EnsureContainer(ctx); err != nil {
		return ObjectInfo{}, err
	}
	meta := make(map[string]*string, len(opt.Metadata))
	for k, v := range opt.Metadata {
		meta[azureMetadataKey(k)] = to.Ptr(v)
	}

	resp, err := a.client.UploadStream(ctx, a.container, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(opt.ContentType)},
		Metadata:    meta,
	})
	if err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{
		Key:          key,
		Size:         opt.Size,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		URL:          a.URL(key),
	}
	if resp.LastModified != nil {
		info.LastModified = *resp.LastModified
	}
	return info, nil
}

// List pages through the flat blob listing of the container.
func (a *azureStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	if err := a.EnsureContainer(ctx); err != nil {
		return nil, err
	}
	out := make([]ObjectInfo, 0)
	pager := a.client.NewListBlobsFlatPager(a.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if page.Segment == nil {
			continue
		}
		for _, item := range page.Segment.BlobItems {
			out = append(out, a.objectInfo(item))
		}
	}
	return out, nil
}

func (a *azureStorage) objectInfo(item *container.BlobItem) ObjectInfo {
	info := ObjectInfo{Key: deref(item.Name)}
	info.URL = a.URL(info.Key)
	if p := item.Properties; p != nil {
		info.Size = deref(p.ContentLength)
		info.ContentType = deref(p.ContentType)
		// Creation time is what the listing reports; fall back to last write.
		info.LastModified = deref(p.CreationTime)
		if info.LastModified.IsZero() {
			info.LastModified = deref(p.LastModified)
		}
	}
	return info
}

// URL returns the blob address under the account's service URL.
func (a *azureStorage) URL(key string) string {
	return a.baseURL + "/" + url.PathEscape(a.container) + "/" + url.PathEscape(key)
}

// Azure metadata names must be valid C# identifiers.
func azureMetadataKey(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
