package processor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/acrelle/dataproc/internal/events"
	"github.com/acrelle/dataproc/internal/redact"
	"github.com/acrelle/dataproc/internal/store"
	"github.com/acrelle/dataproc/internal/task"
)

// defaultKeyIterations is the PBKDF2 iteration count used when the
// configured value is not positive.
const defaultKeyIterations = 10000

// TaskDispatcher defines the interface for submitting asynchronous work
type TaskDispatcher interface {
	// Submit schedules a task and returns once it is queued
	Submit(ctx context.Context, t task.Task, cb task.Callback) error

	// AwaitAll blocks until every accepted task's callback has returned
	AwaitAll()

	// Stop closes the dispatcher and drains queued tasks
	Stop()
}

// ProcessorError wraps errors from the processor with context.
type ProcessorError struct {
	// Operation is the operation that failed (e.g., "process_json", "compress_file")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ProcessorError.
func (e *ProcessorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("processor %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("processor %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// NewProcessorError creates a new ProcessorError.
func NewProcessorError(operation, message string, err error) error {
	return &ProcessorError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Processor is the facade over the toolkit's data-processing operations.
// Every operation logs its outcome, emits an operation event for audit
// handlers, and maintains shared counters reported by GenerateReport.
// A Processor is safe for concurrent use.
type Processor struct {
	db            *sql.DB
	logStore      store.OperationLogStore
	emitter       events.EventEmitter
	dispatcher    TaskDispatcher
	keyIterations int
	logger        *slog.Logger

	// mu guards the failure registry and the report counters
	mu             sync.Mutex
	lastErr        error
	processedItems int64
	errorCount     int64
}

// NewProcessor creates a new Processor.
// It returns an error if any of the required dependencies are nil. A
// non-positive keyIterations falls back to the default with a warning.
func NewProcessor(
	db *sql.DB,
	logStore store.OperationLogStore,
	emitter events.EventEmitter,
	dispatcher TaskDispatcher,
	keyIterations int,
	logger *slog.Logger,
) (*Processor, error) {
	if db == nil {
		return nil, &ProcessorError{
			Operation: "create_processor",
			Message:   "db cannot be nil",
		}
	}
	if logStore == nil {
		return nil, &ProcessorError{
			Operation: "create_processor",
			Message:   "logStore cannot be nil",
		}
	}
	if emitter == nil {
		return nil, &ProcessorError{
			Operation: "create_processor",
			Message:   "emitter cannot be nil",
		}
	}
	if dispatcher == nil {
		return nil, &ProcessorError{
			Operation: "create_processor",
			Message:   "dispatcher cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "processor"))

	if keyIterations <= 0 {
		logger.Warn("invalid key iteration count specified, using default",
			"specified_iterations", keyIterations,
			"default_iterations", defaultKeyIterations)
		keyIterations = defaultKeyIterations
	}

	return &Processor{
		db:            db,
		logStore:      logStore,
		emitter:       emitter,
		dispatcher:    dispatcher,
		keyIterations: keyIterations,
		logger:        logger,
	}, nil
}

// report is the JSON document produced by GenerateReport.
type report struct {
	Timestamp      string `json:"timestamp"`
	Status         string `json:"status"`
	ProcessedItems int64  `json:"processed_items"`
	Errors         int64  `json:"errors"`
}

// GenerateReport returns a JSON summary of the processor's activity:
// a UTC timestamp, the number of successfully processed items and the
// number of recorded failures.
func (p *Processor) GenerateReport(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	processed := p.processedItems
	failures := p.errorCount
	p.mu.Unlock()

	doc := report{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Status:         "success",
		ProcessedItems: processed,
		Errors:         failures,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		p.logger.Error("failed to marshal activity report", "error", err)
		return nil, NewProcessorError("generate_report", "failed to marshal report", err)
	}

	p.logger.Info("generated activity report",
		"processed_items", processed,
		"errors", failures)
	return data, nil
}

// LastError returns the most recently recorded operation failure, or nil
// if no failure has occurred since the last ClearErrors.
func (p *Processor) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// HasErrors reports whether any operation has failed since the last
// ClearErrors.
func (p *Processor) HasErrors() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr != nil
}

// ClearErrors resets the failure registry. The error counter reported by
// GenerateReport is preserved.
func (p *Processor) ClearErrors() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = nil
}

// Close shuts the processor down, stopping the dispatcher after it has
// drained all accepted tasks.
func (p *Processor) Close() {
	p.dispatcher.Stop()
	p.logger.Info("processor shut down")
}

// recordSuccess counts a completed operation and emits its outcome event.
func (p *Processor) recordSuccess(ctx context.Context, operation, details string) {
	p.mu.Lock()
	p.processedItems++
	p.mu.Unlock()

	p.emitOutcome(ctx, operation, details, nil)
}

// recordFailure registers an operation failure and emits its outcome event.
func (p *Processor) recordFailure(ctx context.Context, operation string, err error) {
	p.mu.Lock()
	p.lastErr = err
	p.errorCount++
	p.mu.Unlock()

	p.emitOutcome(ctx, operation, "", err)
}

// emitOutcome publishes an operation event. Emission problems are logged
// and do not fail the operation itself.
func (p *Processor) emitOutcome(ctx context.Context, operation, details string, opErr error) {
	outcome := events.OperationOutcome{
		Details: details,
		Error:   redact.Error(opErr),
	}

	event, err := events.NewOperationEvent(operation, outcome)
	if err != nil {
		p.logger.Warn("failed to create operation event",
			"error", err,
			"operation", operation)
		return
	}

	if err := p.emitter.EmitEvent(ctx, event); err != nil {
		p.logger.Warn("failed to emit operation event",
			"error", err,
			"operation", operation,
			"event_id", event.ID)
	}
}
