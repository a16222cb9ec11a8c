package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Common errors returned by the Dispatcher
var (
	// ErrNilTask is returned by Submit when the task is nil.
	ErrNilTask = errors.New("task is nil")

	// ErrNilCallback is returned by Submit when no result callback is provided.
	ErrNilCallback = errors.New("result callback is nil")

	// ErrNotStarted is returned by Submit before Start has been called.
	ErrNotStarted = errors.New("dispatcher not started")

	// ErrAlreadyStarted is returned by Start when the dispatcher is already running.
	ErrAlreadyStarted = errors.New("dispatcher already started")

	// ErrDispatcherClosed is returned by Submit after Stop has been called.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrQueueFull is returned by Submit when the task queue is at capacity.
	ErrQueueFull = errors.New("task queue is full")

	// ErrTaskPanicked is wrapped into a Result's Err when task execution panicked.
	ErrTaskPanicked = errors.New("task panicked")
)

// DispatcherConfig holds configuration for the dispatcher
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	// If zero or negative, defaults to 100.
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// submission pairs a task with the callback that receives its result.
type submission struct {
	task     Task
	callback Callback
}

// Dispatcher manages asynchronous task processing. Submitted tasks are
// executed by a fixed pool of worker goroutines; each submission's callback
// is invoked exactly once with the task's result, and AwaitAll blocks until
// every accepted submission has been completed and its callback returned.
type Dispatcher struct {
	config DispatcherConfig
	logger *slog.Logger

	// queue carries accepted submissions to the workers
	queue chan submission

	// ctx is passed to task Execute calls
	ctx    context.Context
	cancel context.CancelFunc

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// mu guards outstanding, started and closed. cond is signaled
	// whenever outstanding drops to zero.
	mu          sync.Mutex
	cond        *sync.Cond
	outstanding int64
	started     bool
	closed      bool
}

// NewDispatcher creates a new Dispatcher with the specified configuration.
// Invalid config values are replaced with defaults. If logger is nil, the
// default logger is used.
func NewDispatcher(config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	// Apply defaults for invalid config values
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		logger.Warn("invalid queue size specified, using default",
			"specified_size", config.QueueSize,
			"default_size", DefaultDispatcherConfig().QueueSize)
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		config: config,
		logger: logger,
		queue:  make(chan submission, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Start launches the worker pool and begins processing submitted tasks.
// Returns ErrAlreadyStarted if the dispatcher is already running and
// ErrDispatcherClosed if it has been stopped.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	if d.started {
		return ErrAlreadyStarted
	}
	d.started = true

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info("dispatcher started",
		"worker_count", d.config.WorkerCount,
		"queue_size", d.config.QueueSize)
	return nil
}

// Submit schedules a task for asynchronous execution and returns as soon as
// the task is queued. The callback is invoked exactly once, on a worker
// goroutine, with the task's result.
//
// Submit reports scheduling problems synchronously through its return value:
// ErrNilTask, ErrNilCallback, ErrNotStarted, ErrDispatcherClosed or
// ErrQueueFull. A rejected submission never invokes the callback and is not
// counted by AwaitAll.
func (d *Dispatcher) Submit(ctx context.Context, task Task, callback Callback) error {
	if task == nil {
		return ErrNilTask
	}
	if callback == nil {
		return ErrNilCallback
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	if !d.started {
		return ErrNotStarted
	}

	// Count the task before handing it to the queue so a concurrent
	// AwaitAll can never observe the queue ahead of the counter.
	d.outstanding++

	select {
	case d.queue <- submission{task: task, callback: callback}:
		d.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"queue_len", len(d.queue),
			"queue_cap", cap(d.queue))
		return nil
	default:
		// Queue is full, roll the counter back
		d.outstanding--
		if d.outstanding == 0 {
			d.cond.Broadcast()
		}
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// AwaitAll blocks until every accepted submission has completed and had its
// callback invoked. It returns immediately when nothing is outstanding.
// Multiple goroutines may call AwaitAll concurrently.
func (d *Dispatcher) AwaitAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for d.outstanding > 0 {
		d.cond.Wait()
	}
}

// Outstanding returns the number of accepted submissions whose callbacks
// have not yet returned.
func (d *Dispatcher) Outstanding() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outstanding
}

// Stop closes the dispatcher for new submissions, waits for the workers to
// drain the queue, and shuts the pool down. Every task accepted before Stop
// still executes and has its callback invoked. Stop is idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()

	d.logger.Info("dispatcher stopped")
}

// worker consumes submissions from the queue until it is closed and drained.
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", "worker_id", id)

	for sub := range d.queue {
		d.runTask(sub, id)
	}

	d.logger.Debug("task queue closed, stopping worker", "worker_id", id)
}

// runTask executes a single submission and delivers its result. The
// outstanding counter is decremented only after the callback has returned,
// so AwaitAll cannot unblock while a callback is still running.
func (d *Dispatcher) runTask(sub submission, workerID int) {
	defer d.taskDone()

	logger := d.logger.With(
		"task_id", sub.task.ID(),
		"task_type", sub.task.Type(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	result := Result{
		TaskID:    sub.task.ID(),
		TaskType:  sub.task.Type(),
		StartedAt: time.Now().UTC(),
	}

	result.Output, result.Err = d.executeTask(sub.task, logger)
	result.FinishedAt = time.Now().UTC()

	if result.Err != nil {
		logger.Error("task execution failed",
			"error", result.Err,
			"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds())
	} else {
		logger.Info("task completed successfully",
			"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds())
	}

	d.deliver(sub.callback, result, logger)
}

// executeTask runs the task's Execute method, converting panics into errors
// so a misbehaving task cannot kill its worker.
func (d *Dispatcher) executeTask(t Task, logger *slog.Logger) (output []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("task panicked",
				"panic", p,
				"stack", string(debug.Stack()))
			output = nil
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
		}
	}()

	return t.Execute(d.ctx)
}

// deliver invokes the submission's callback with the result. A panicking
// callback is contained so it cannot kill the worker or skip the
// outstanding-counter decrement.
func (d *Dispatcher) deliver(callback Callback, result Result, logger *slog.Logger) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("result callback panicked",
				"panic", p,
				"stack", string(debug.Stack()))
		}
	}()

	callback(result)
}

// taskDone decrements the outstanding counter and wakes AwaitAll waiters
// when it reaches zero.
func (d *Dispatcher) taskDone() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.outstanding--
	if d.outstanding == 0 {
		d.cond.Broadcast()
	}
}
