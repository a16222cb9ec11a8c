package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeHash represents the task type for computing payload digests
	TaskTypeHash = "hash_generation"
)

// Task represents a unit of background work to be processed
// Version: 1.0
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic and returns its output.
	// Implementations must return an error instead of panicking; panics
	// that escape anyway are captured by the dispatcher and reported as
	// task failures.
	Execute(ctx context.Context) ([]byte, error)
}

// Result describes the outcome of one executed task. It is handed to the
// submission's callback exactly once, whether the task succeeded or failed.
type Result struct {
	// TaskID identifies the task this result belongs to
	TaskID uuid.UUID

	// TaskType is the task type identifier
	TaskType string

	// Output is the data produced by the task, nil when the task failed
	Output []byte

	// Err is nil for successful tasks. For failures it carries the
	// execution error, wrapping ErrTaskPanicked when the task panicked.
	Err error

	// StartedAt is when a worker began executing the task
	StartedAt time.Time

	// FinishedAt is when execution returned
	FinishedAt time.Time
}

// Callback receives the result of a submitted task. It is invoked on the
// worker goroutine that executed the task, so it must not block for long.
type Callback func(Result)
