package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/platform/logger"
	"github.com/acrelle/dataproc/internal/store"
	"github.com/google/uuid"
)

// timestampLayout is the text format used for the timestamp column.
const timestampLayout = time.RFC3339Nano

// SQLiteOperationLogStore implements the store.OperationLogStore interface
// using the embedded SQLite database as the storage backend.
type SQLiteOperationLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteOperationLogStore creates a new SQLite implementation of the OperationLogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteOperationLogStore(db store.DBTX, logger *slog.Logger) *SQLiteOperationLogStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteOperationLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "operation_log_store")),
	}
}

// Ensure SQLiteOperationLogStore implements store.OperationLogStore interface
var _ store.OperationLogStore = (*SQLiteOperationLogStore)(nil)

// Save implements store.OperationLogStore.Save
// It persists a new operation record to the database, handling domain validation.
// Returns validation errors from the domain OperationRecord if data is invalid.
// Returns store.ErrRecordIDExists if a record with the same ID was already saved.
func (s *SQLiteOperationLogStore) Save(ctx context.Context, record *domain.OperationRecord) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate record data
	if err := record.Validate(); err != nil {
		log.Warn("operation record validation failed during save",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO data_processor_logs (record_id, timestamp, operation, details)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID.String(),
		record.CreatedAt.UTC().Format(timestampLayout),
		record.Operation,
		record.Details,
	)

	if err != nil {
		// Check for unique constraint violation on record_id
		if IsUniqueViolation(err) {
			log.Warn("duplicate record id during save",
				slog.String("record_id", record.ID.String()))
			return fmt.Errorf("%w: %s", store.ErrRecordIDExists, record.ID)
		}

		// Log the error
		log.Error("failed to save operation record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("operation", record.Operation))

		return MapError(err)
	}

	log.Debug("operation record saved",
		slog.String("record_id", record.ID.String()),
		slog.String("operation", record.Operation))
	return nil
}

// GetByID implements store.OperationLogStore.GetByID
// It retrieves an operation record by its unique record ID.
// Returns store.ErrOperationRecordNotFound if the record does not exist.
func (s *SQLiteOperationLogStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.OperationRecord, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving operation record by ID", slog.String("record_id", id.String()))

	query := `
		SELECT record_id, timestamp, operation, details
		FROM data_processor_logs
		WHERE record_id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id.String())
	record, err := scanOperationRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("operation record not found", slog.String("record_id", id.String()))
			return nil, store.ErrOperationRecordNotFound
		}
		log.Error("failed to get operation record by ID",
			slog.String("error", err.Error()),
			slog.String("record_id", id.String()))
		return nil, err
	}

	log.Debug("operation record retrieved",
		slog.String("record_id", id.String()),
		slog.String("operation", record.Operation))
	return record, nil
}

// ListByOperation implements store.OperationLogStore.ListByOperation
// It retrieves all records logged for the given operation name, most recent first.
// Returns an empty slice if no records match the criteria.
func (s *SQLiteOperationLogStore) ListByOperation(
	ctx context.Context,
	operation string,
	limit, offset int,
) ([]*domain.OperationRecord, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate limit and offset
	if limit <= 0 {
		limit = 10 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	log.Debug("listing operation records",
		slog.String("operation", operation),
		slog.Int("limit", limit),
		slog.Int("offset", offset))

	query := `
		SELECT record_id, timestamp, operation, details
		FROM data_processor_logs
		WHERE operation = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, operation, limit, offset)
	if err != nil {
		log.Error("failed to query operation records",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, err
	}
	defer func() {
		err := rows.Close()
		if err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var records []*domain.OperationRecord
	for rows.Next() {
		record, err := scanOperationRecord(rows.Scan)
		if err != nil {
			log.Error("failed to scan operation record row",
				slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no records found
	if records == nil {
		records = []*domain.OperationRecord{}
	}

	log.Debug("listed operation records",
		slog.String("operation", operation),
		slog.Int("count", len(records)))
	return records, nil
}

// CountByOperation implements store.OperationLogStore.CountByOperation
// It returns the number of records logged for the given operation name.
// An empty operation name counts records for all operations.
func (s *SQLiteOperationLogStore) CountByOperation(
	ctx context.Context,
	operation string,
) (int64, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM data_processor_logs
	`
	var args []any
	if operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, operation)
	}

	var count int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		log.Error("failed to count operation records",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return 0, fmt.Errorf("%w: failed to count records: %v", store.ErrInternal, err)
	}

	log.Debug("counted operation records",
		slog.String("operation", operation),
		slog.Int64("count", count))
	return count, nil
}

// WithTx implements store.OperationLogStore.WithTx
// It returns a new store instance that runs all statements on the given transaction.
func (s *SQLiteOperationLogStore) WithTx(tx *sql.Tx) store.OperationLogStore {
	return &SQLiteOperationLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanOperationRecord maps one row of data_processor_logs onto a domain
// OperationRecord. The scan argument abstracts over sql.Row and sql.Rows.
func scanOperationRecord(scan func(dest ...any) error) (*domain.OperationRecord, error) {
	var (
		idText        string
		timestampText string
		operation     string
		details       sql.NullString
	)

	if err := scan(&idText, &timestampText, &operation, &details); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid record id %q: %v", store.ErrInternal, idText, err)
	}

	createdAt, err := time.Parse(timestampLayout, timestampText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp %q: %v", store.ErrInternal, timestampText, err)
	}

	return &domain.OperationRecord{
		ID:        id,
		Operation: operation,
		Details:   details.String,
		CreatedAt: createdAt,
	}, nil
}
