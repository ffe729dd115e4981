package service

import (
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockTaskRunner mocks the TaskRunner interface
type MockTaskRunner struct {
	mock.Mock
}

func (m *MockTaskRunner) Submit(category task.Category, subject task.Subject, params task.Parameters) (string, error) {
	args := m.Called(category, subject, params)
	return args.String(0), args.Error(1)
}

func (m *MockTaskRunner) Cancel(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTaskRunner) Status(id string) (task.Record, bool) {
	args := m.Called(id)
	return args.Get(0).(task.Record), args.Bool(1)
}

func (m *MockTaskRunner) ListPending(category task.Category) []task.Record {
	args := m.Called(category)
	return args.Get(0).([]task.Record)
}

func (m *MockTaskRunner) ListAll() []task.Record {
	args := m.Called()
	return args.Get(0).([]task.Record)
}

func (m *MockTaskRunner) ClearAll() {
	m.Called()
}
