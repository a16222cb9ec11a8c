package task

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyPayload is returned when a hash task is created with no data.
var ErrEmptyPayload = errors.New("payload cannot be empty")

// HashTask computes the SHA-256 digest of its payload. The digest is
// returned as a lowercase hex string in the result output.
type HashTask struct {
	id      uuid.UUID
	payload []byte

	mu     sync.Mutex
	status TaskStatus
}

// NewHashTask creates a hash generation task for the given payload.
// Returns ErrEmptyPayload if the payload is empty.
func NewHashTask(payload []byte) (*HashTask, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	// Copy the payload so later mutation by the caller cannot change
	// what the task hashes.
	data := make([]byte, len(payload))
	copy(data, payload)

	return &HashTask{
		id:      uuid.New(),
		payload: data,
		status:  TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *HashTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *HashTask) Type() string {
	return TaskTypeHash
}

// Payload returns the data to be hashed
func (t *HashTask) Payload() []byte {
	return t.payload
}

// Status returns the current task status
func (t *HashTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// setStatus updates the task's status.
func (t *HashTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// Execute computes the SHA-256 digest of the payload and returns it as a
// lowercase hex string.
func (t *HashTask) Execute(ctx context.Context) ([]byte, error) {
	t.setStatus(TaskStatusProcessing)

	select {
	case <-ctx.Done():
		t.setStatus(TaskStatusFailed)
		return nil, ctx.Err()
	default:
	}

	sum := sha256.Sum256(t.payload)
	digest := hex.EncodeToString(sum[:])

	t.setStatus(TaskStatusCompleted)
	return []byte(digest), nil
}
