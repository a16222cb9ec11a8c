package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/acrelle/dataproc/internal/config"
	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/events"
	"github.com/acrelle/dataproc/internal/platform/sqlite"
	"github.com/acrelle/dataproc/internal/processor"
	"github.com/acrelle/dataproc/internal/redact"
	"github.com/acrelle/dataproc/internal/store"
	"github.com/acrelle/dataproc/internal/task"
)

// AuditEventHandler persists operation events to the operation log so every
// processing outcome leaves an audit row, including failures.
type AuditEventHandler struct {
	logStore store.OperationLogStore
	logger   *slog.Logger
}

// NewAuditEventHandler creates a handler that writes operation events to the
// given store.
func NewAuditEventHandler(logStore store.OperationLogStore, logger *slog.Logger) *AuditEventHandler {
	return &AuditEventHandler{
		logStore: logStore,
		logger:   logger.With(slog.String("component", "audit_event_handler")),
	}
}

// HandleEvent writes the event to the operation log. Storage events are
// skipped because StoreData already persisted its own record.
func (h *AuditEventHandler) HandleEvent(ctx context.Context, event *events.OperationEvent) error {
	if event.Operation == domain.OperationDataStorage {
		h.logger.Debug("skipping event already persisted by its operation",
			"operation", event.Operation,
			"event_id", event.ID)
		return nil
	}

	var outcome events.OperationOutcome
	if err := event.UnmarshalPayload(&outcome); err != nil {
		h.logger.Error("failed to unmarshal event payload",
			"error", err,
			"event_id", event.ID)
		return fmt.Errorf("failed to unmarshal event payload: %w", err)
	}

	details := outcome.Details
	if outcome.Error != "" {
		details = fmt.Sprintf("failed: %s", outcome.Error)
	}

	record := &domain.OperationRecord{
		ID:        event.ID,
		Operation: event.Operation,
		Details:   redact.String(details),
		CreatedAt: event.CreatedAt,
	}

	if err := h.logStore.Save(ctx, record); err != nil {
		h.logger.Error("failed to persist audit record",
			"error", err,
			"operation", event.Operation,
			"event_id", event.ID)
		return fmt.Errorf("failed to persist audit record: %w", err)
	}

	h.logger.Debug("persisted audit record",
		"operation", event.Operation,
		"record_id", record.ID)

	return nil
}

// application holds shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	logStore     store.OperationLogStore
	eventEmitter events.EventEmitter
	dispatcher   *task.Dispatcher
	processor    *processor.Processor
}

// newApplication creates an application with all dependencies initialized.
// The database must already be open and migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.logStore = sqlite.NewSQLiteOperationLogStore(db, logger)

	app.dispatcher = task.NewDispatcher(task.DispatcherConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	if err := app.dispatcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task dispatcher: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(NewAuditEventHandler(app.logStore, logger))
	app.eventEmitter = emitter

	proc, err := processor.NewProcessor(db, app.logStore, app.eventEmitter, app.dispatcher,
		cfg.Crypto.KeyIterations, logger)
	if err != nil {
		app.dispatcher.Stop()
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}
	app.processor = proc

	logger.Info("application initialized successfully")

	return app, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.processor != nil {
		app.processor.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
