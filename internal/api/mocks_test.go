package api

import (
	"context"

	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockBunnyService mocks the service.BunnyService interface
type MockBunnyService struct {
	mock.Mock
}

var _ service.BunnyService = (*MockBunnyService)(nil)

func (m *MockBunnyService) RegisterMarker(ctx context.Context, markerID, imageID uint32) error {
	return m.Called(markerID, imageID).Error(0)
}

func (m *MockBunnyService) RequestOCR(ctx context.Context, markerID uint32, model string) (string, error) {
	args := m.Called(markerID, model)
	return args.String(0), args.Error(1)
}

func (m *MockBunnyService) RequestTranslation(ctx context.Context, req service.TranslationRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *MockBunnyService) CancelTask(ctx context.Context, taskID string) error {
	return m.Called(taskID).Error(0)
}

func (m *MockBunnyService) GetTaskStatus(ctx context.Context, taskID string) (task.Record, error) {
	args := m.Called(taskID)
	return args.Get(0).(task.Record), args.Error(1)
}

func (m *MockBunnyService) GetQueuedTasks(ctx context.Context, category task.Category) []task.Record {
	return m.Called(category).Get(0).([]task.Record)
}

func (m *MockBunnyService) GetAllTasks(ctx context.Context) []task.Record {
	return m.Called().Get(0).([]task.Record)
}

func (m *MockBunnyService) ClearAllTasks(ctx context.Context) {
	m.Called()
}

func (m *MockBunnyService) GetOCRResult(ctx context.Context, markerID uint32) (string, error) {
	args := m.Called(markerID)
	return args.String(0), args.Error(1)
}

func (m *MockBunnyService) GetTranslationResult(ctx context.Context, markerID uint32) (string, error) {
	args := m.Called(markerID)
	return args.String(0), args.Error(1)
}
