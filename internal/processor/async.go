package processor

import (
	"context"
	"fmt"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/task"
)

// ProcessDataAsync schedules a hash task for the payload on the dispatcher
// and returns once it is queued. The callback receives the task's result on
// a worker goroutine, exactly once; scheduling problems are returned
// synchronously and the callback is never invoked for them.
func (p *Processor) ProcessDataAsync(ctx context.Context, data []byte, cb task.Callback) error {
	hashTask, err := task.NewHashTask(data)
	if err != nil {
		p.logger.Error("failed to create hash task", "error", err)
		wrapped := NewProcessorError("process_data_async", "failed to create hash task", err)
		p.recordFailure(ctx, domain.OperationAsync, wrapped)
		return wrapped
	}

	err = p.dispatcher.Submit(ctx, hashTask, func(result task.Result) {
		if result.Err != nil {
			p.recordFailure(context.Background(), domain.OperationAsync, result.Err)
		} else {
			p.recordSuccess(context.Background(), domain.OperationAsync,
				fmt.Sprintf("async task %s completed", result.TaskID))
		}
		cb(result)
	})
	if err != nil {
		p.logger.Error("failed to submit hash task",
			"error", err,
			"task_id", hashTask.ID())
		wrapped := NewProcessorError("process_data_async", "failed to submit hash task", err)
		p.recordFailure(ctx, domain.OperationAsync, wrapped)
		return wrapped
	}

	p.logger.Debug("submitted hash task",
		"task_id", hashTask.ID(),
		"payload_bytes", len(data))

	return nil
}

// WaitForCompletion blocks until every task accepted so far has completed
// and had its callback invoked.
func (p *Processor) WaitForCompletion() {
	p.logger.Debug("waiting for outstanding tasks")
	p.dispatcher.AwaitAll()
	p.logger.Debug("all outstanding tasks completed")
}
