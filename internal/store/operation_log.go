package store

import (
	"context"
	"database/sql"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/google/uuid"
)

// OperationLogStore defines the interface for operation record persistence.
type OperationLogStore interface {
	// Save persists a new operation record to the store.
	// It handles domain validation internally and returns ErrInvalidEntity
	// wrapping the validation error if the record is invalid.
	// Returns ErrRecordIDExists if a record with the same ID was already saved.
	Save(ctx context.Context, record *domain.OperationRecord) error

	// GetByID retrieves an operation record by its unique record ID.
	// Returns ErrOperationRecordNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.OperationRecord, error)

	// ListByOperation retrieves all records logged for the given operation
	// name, most recent first. Returns an empty slice if no records match.
	// Can limit the number of results and paginate through offset.
	ListByOperation(
		ctx context.Context,
		operation string,
		limit, offset int,
	) ([]*domain.OperationRecord, error)

	// CountByOperation returns the number of records logged for the given
	// operation name. An empty operation name counts records for all
	// operations.
	CountByOperation(ctx context.Context, operation string) (int64, error)

	// WithTx returns a new OperationLogStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) OperationLogStore
}
