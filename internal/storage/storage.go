// Package storage contains object storage abstractions and the S3-compatible
// and Azure Blob implementations. All transfers are streamed; no local disk is used.
package storage

import (
	"context"
	"io"
	"sync"
	"time"
)

const containerTimeout = 10 * time.Second

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	URL          string
}

// Storage is a reusable object storage client scoped to a single container.
// Implementations are safe for concurrent use.
type Storage interface {
	// EnsureContainer creates the container if it is missing. Put and List
	// call it until it succeeds once.
	EnsureContainer(ctx context.Context) error
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// List returns every object in the container.
	List(ctx context.Context) ([]ObjectInfo, error)
	// URL returns the address of the object with the given key.
	URL(key string) string
}

// containerGate remembers a successful container check.
type containerGate struct {
	mu   sync.Mutex
	done bool
}

func (g *containerGate) do(ctx context.Context, ensure func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return nil
	}
	if err := ensure(ctx); err != nil {
		return err
	}
	g.done = true
	return nil
}
