package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
	"time"

	"taskapi/internal/model"
	"taskapi/internal/storage"
)

// MaxUploadSize caps the accepted payload at 10 MiB.
const MaxUploadSize int64 = 10 << 20

// AllowedContentTypes is the upload allow-list.
var AllowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
	"text/plain":      {},
}

// FileUpload describes one uploaded payload as received from the client.
type FileUpload struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64
}

// FileService defines the upload and listing use cases over blob storage.
type FileService interface {
	Configured() bool

	// Upload validates the payload and stores it under "<unix-millis>-<original name>".
	// Validation errors take precedence over ErrNotConfigured.
	Upload(ctx context.Context, f FileUpload) (*model.UploadedFile, error)

	// List returns every stored object.
	List(ctx context.Context) ([]model.StoredFile, error)
}

type fileService struct {
	store storage.Storage
	now   func() time.Time
}

// NewFileService constructs a FileService. A nil store yields a service whose
// every operation fails with ErrNotConfigured.
func NewFileService(store storage.Storage) FileService {
	return &fileService{store: store, now: time.Now}
}

func (s *fileService) Configured() bool {
	return s.store != nil
}

// ValidateUpload checks presence, declared type and size. It never touches storage.
func ValidateUpload(f FileUpload) error {
	if f.Reader == nil || f.OriginalName == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrFileRequired)
	}
	if !ContentTypeAllowed(f.ContentType) {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrUnsupportedType, f.ContentType)
	}
	if f.Size > MaxUploadSize {
		return fmt.Errorf("%w: %w: %d bytes exceeds %d", ErrValidation, ErrFileTooLarge, f.Size, MaxUploadSize)
	}
	return nil
}

// ContentTypeAllowed reports whether ct, ignoring parameters, is on the allow-list.
func ContentTypeAllowed(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	_, ok := AllowedContentTypes[strings.ToLower(mt)]
	return ok
}

func (s *fileService) Upload(ctx context.Context, f FileUpload) (*model.UploadedFile, error) {
	if err := ValidateUpload(f); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrNotConfigured
	}

	uploadedAt := s.now().UTC()
	key := strconv.FormatInt(uploadedAt.UnixMilli(), 10) + "-" + f.OriginalName

	info, err := s.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: f.ContentType,
		Metadata: map[string]string{
			"original-filename": f.OriginalName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	size := info.Size
	if size <= 0 {
		size = f.Size
	}
	url := info.URL
	if url == "" {
		url = s.store.URL(key)
	}

	return &model.UploadedFile{
		FileName:     key,
		OriginalName: f.OriginalName,
		Size:         size,
		ContentType:  f.ContentType,
		URL:          url,
		UploadedAt:   uploadedAt,
	}, nil
}

func (s *fileService) List(ctx context.Context) ([]model.StoredFile, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	objs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	files := make([]model.StoredFile, 0, len(objs))
	for _, o := range objs {
		url := o.URL
		if url == "" {
			url = s.store.URL(o.Key)
		}
		files = append(files, model.StoredFile{
			Name:        o.Key,
			Size:        o.Size,
			ContentType: o.ContentType,
			CreatedAt:   o.LastModified,
			URL:         url,
		})
	}
	return files, nil
}
