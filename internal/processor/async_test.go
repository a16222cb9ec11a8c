package processor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acrelle/dataproc/internal/task"
)

var asyncDigestPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestProcessDataAsync(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)

	resultCh := make(chan task.Result, 1)
	err := p.ProcessDataAsync(context.Background(), []byte("alpha"), func(result task.Result) {
		resultCh <- result
	})
	require.NoError(t, err)

	p.WaitForCompletion()

	select {
	case result := <-resultCh:
		assert.NoError(t, result.Err)
		assert.Equal(t, task.TaskTypeHash, result.TaskType)
		assert.Regexp(t, asyncDigestPattern, string(result.Output))
	default:
		t.Fatal("WaitForCompletion returned before the callback ran")
	}
	assert.False(t, p.HasErrors())
}

func TestProcessDataAsyncBatch(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)

	const taskCount = 10

	var mu sync.Mutex
	digests := make(map[string]struct{})

	for i := 0; i < taskCount; i++ {
		err := p.ProcessDataAsync(context.Background(), []byte(fmt.Sprintf("payload-%d", i)), func(result task.Result) {
			mu.Lock()
			digests[string(result.Output)] = struct{}{}
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	p.WaitForCompletion()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, digests, taskCount, "distinct payloads should produce distinct digests")
}

func TestProcessDataAsyncEmptyPayload(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)

	callbackRan := false
	err := p.ProcessDataAsync(context.Background(), nil, func(task.Result) {
		callbackRan = true
	})

	assert.ErrorIs(t, err, task.ErrEmptyPayload)
	assert.False(t, callbackRan, "scheduling failures must not invoke the callback")
	assert.True(t, p.HasErrors())
}

func TestProcessDataAsyncAfterClose(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	p.Close()

	err := p.ProcessDataAsync(context.Background(), []byte("late"), func(task.Result) {})
	assert.ErrorIs(t, err, task.ErrDispatcherClosed)
}

func TestProcessDataAsyncTaskFailureRecorded(t *testing.T) {
	t.Parallel()

	taskErr := errors.New("worker exploded")

	dispatcher := &MockTaskDispatcher{}
	dispatcher.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cb := args.Get(2).(task.Callback)
			cb(task.Result{
				TaskID:   uuid.New(),
				TaskType: task.TaskTypeHash,
				Err:      taskErr,
			})
		}).
		Return(nil)

	p, err := NewProcessor(newTestDB(t), &MockOperationLogStore{}, &recordingEmitter{}, dispatcher, testKeyIterations, setupTestLogger())
	require.NoError(t, err)

	var got task.Result
	err = p.ProcessDataAsync(context.Background(), []byte("doomed"), func(result task.Result) {
		got = result
	})
	require.NoError(t, err)

	assert.ErrorIs(t, got.Err, taskErr)
	assert.True(t, p.HasErrors(), "task failures must reach the error registry")
	assert.ErrorIs(t, p.LastError(), taskErr)
}

func TestWaitForCompletionDelegates(t *testing.T) {
	t.Parallel()

	dispatcher := &MockTaskDispatcher{}
	dispatcher.On("AwaitAll").Return()

	p, err := NewProcessor(newTestDB(t), &MockOperationLogStore{}, &recordingEmitter{}, dispatcher, testKeyIterations, setupTestLogger())
	require.NoError(t, err)

	p.WaitForCompletion()
	dispatcher.AssertCalled(t, "AwaitAll")
}
