package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskapi/internal/model"
	"taskapi/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockFileService) Upload(ctx context.Context, f service.FileUpload) (*model.UploadedFile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedFile), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context) ([]model.StoredFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredFile), args.Error(1)
}
