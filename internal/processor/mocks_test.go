package processor

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/events"
	"github.com/acrelle/dataproc/internal/store"
	"github.com/acrelle/dataproc/internal/task"
)

// testKeyIterations keeps PBKDF2 cheap in tests.
const testKeyIterations = 1000

// setupTestLogger creates a logger that discards output for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newTestDB opens an in-memory SQLite database pinned to a single
// connection so every statement sees the same data.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestProcessor builds a Processor backed by a started dispatcher, a
// recording emitter, a mock store and a bare in-memory database.
func newTestProcessor(t *testing.T) (*Processor, *recordingEmitter) {
	t.Helper()

	dispatcher := task.NewDispatcher(task.DispatcherConfig{WorkerCount: 2, QueueSize: 16}, setupTestLogger())
	require.NoError(t, dispatcher.Start())
	t.Cleanup(dispatcher.Stop)

	emitter := &recordingEmitter{}

	p, err := NewProcessor(newTestDB(t), &MockOperationLogStore{}, emitter, dispatcher, testKeyIterations, setupTestLogger())
	require.NoError(t, err)
	return p, emitter
}

// MockOperationLogStore mocks the store.OperationLogStore interface
type MockOperationLogStore struct {
	mock.Mock
}

func (m *MockOperationLogStore) Save(ctx context.Context, record *domain.OperationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockOperationLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationRecord), args.Error(1)
}

func (m *MockOperationLogStore) ListByOperation(
	ctx context.Context,
	operation string,
	limit, offset int,
) ([]*domain.OperationRecord, error) {
	args := m.Called(ctx, operation, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OperationRecord), args.Error(1)
}

func (m *MockOperationLogStore) CountByOperation(ctx context.Context, operation string) (int64, error) {
	args := m.Called(ctx, operation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationLogStore) WithTx(tx *sql.Tx) store.OperationLogStore {
	args := m.Called(tx)
	return args.Get(0).(store.OperationLogStore)
}

// MockTaskDispatcher mocks the TaskDispatcher interface
type MockTaskDispatcher struct {
	mock.Mock
}

func (m *MockTaskDispatcher) Submit(ctx context.Context, t task.Task, cb task.Callback) error {
	args := m.Called(ctx, t, cb)
	return args.Error(0)
}

func (m *MockTaskDispatcher) AwaitAll() {
	m.Called()
}

func (m *MockTaskDispatcher) Stop() {
	m.Called()
}

// recordingEmitter captures emitted events for assertions. EmitErr, when
// set, is returned from every EmitEvent call.
type recordingEmitter struct {
	mu      sync.Mutex
	events  []*events.OperationEvent
	EmitErr error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.OperationEvent) error {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
	return e.EmitErr
}

// Events returns a snapshot of everything emitted so far.
func (e *recordingEmitter) Events() []*events.OperationEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := make([]*events.OperationEvent, len(e.events))
	copy(snapshot, e.events)
	return snapshot
}

// LastEvent returns the most recently emitted event, or nil.
func (e *recordingEmitter) LastEvent() *events.OperationEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.events) == 0 {
		return nil
	}
	return e.events[len(e.events)-1]
}

// lastOutcome decodes the most recent event's payload.
func lastOutcome(t *testing.T, e *recordingEmitter) events.OperationOutcome {
	t.Helper()

	event := e.LastEvent()
	require.NotNil(t, event, "expected an emitted event")

	var outcome events.OperationOutcome
	require.NoError(t, event.UnmarshalPayload(&outcome))
	return outcome
}
