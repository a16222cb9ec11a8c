package task

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// MockTask implements the Task interface for testing
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) ([]byte, error)
}

// NewMockTask creates a new mock task with default values
func NewMockTask() *MockTask {
	return &MockTask{
		TaskID:     uuid.New(),
		TaskType:   "mock_task",
		TaskStatus: TaskStatusPending,
	}
}

// ID returns the task's unique identifier
func (m *MockTask) ID() uuid.UUID {
	return m.TaskID
}

// Type returns the task type identifier
func (m *MockTask) Type() string {
	return m.TaskType
}

// Payload returns the task's payload
func (m *MockTask) Payload() []byte {
	return m.TaskPayload
}

// Status returns the task's current status
func (m *MockTask) Status() TaskStatus {
	return m.TaskStatus
}

// Execute runs the configured ExecuteFn or returns the payload unchanged
func (m *MockTask) Execute(ctx context.Context) ([]byte, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx)
	}
	return m.TaskPayload, nil
}

// MockPayload is a simple struct for use in test payloads
type MockPayload struct {
	Data string `json:"data"`
}

// CreateMockTaskWithPayload creates a mock task carrying the given payload data
func CreateMockTaskWithPayload(data string) (*MockTask, error) {
	payload, err := json.Marshal(MockPayload{Data: data})
	if err != nil {
		return nil, err
	}

	task := NewMockTask()
	task.TaskPayload = payload
	return task, nil
}
