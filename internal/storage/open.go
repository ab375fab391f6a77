package storage

import (
	"errors"

	"taskapi/internal/config"
)

// ErrNotConfigured is returned by Open when no backend settings are present.
var ErrNotConfigured = errors.New("storage not configured")

// Open builds the backend selected by cfg: Azure Blob when a connection
// string is set, otherwise MinIO. Only invalid settings fail here; an
// unreachable service shows up on EnsureContainer, Put or List.
func Open(cfg config.StorageConfig) (Storage, string, error) {
	switch {
	case cfg.AzureConnectionString != "":
		s, err := NewAzureBlob(cfg)
		return s, "azure", err
	case cfg.MinIO.Configured():
		s, err := NewMinIO(cfg)
		return s, "minio", err
	default:
		return nil, "", ErrNotConfigured
	}
}
