package processor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/acrelle/dataproc/internal/domain"
	"github.com/acrelle/dataproc/internal/redact"
	"github.com/acrelle/dataproc/internal/store"
)

// StoreData inserts a data_storage record carrying the given details into
// the operation log.
func (p *Processor) StoreData(ctx context.Context, details string) error {
	record, err := domain.NewOperationRecord(domain.OperationDataStorage, details)
	if err != nil {
		p.logger.Error("failed to create operation record", "error", err)
		wrapped := NewProcessorError("store_data", "failed to create operation record", err)
		p.recordFailure(ctx, domain.OperationDataStorage, wrapped)
		return wrapped
	}

	err = store.RunInTransaction(ctx, p.db, func(ctx context.Context, tx *sql.Tx) error {
		return p.logStore.WithTx(tx).Save(ctx, record)
	})
	if err != nil {
		p.logger.Error("failed to save operation record",
			"error", err,
			"record_id", record.ID)
		wrapped := NewProcessorError("store_data", "failed to save operation record", err)
		p.recordFailure(ctx, domain.OperationDataStorage, wrapped)
		return wrapped
	}

	p.logger.Info("stored operation record",
		"record_id", record.ID,
		"details", redact.String(details))
	p.recordSuccess(ctx, domain.OperationDataStorage,
		fmt.Sprintf("stored record %s", record.ID))

	return nil
}

// QueryData returns the operation log records for the given operation name,
// newest first, using the store's pagination rules.
func (p *Processor) QueryData(ctx context.Context, operation string, limit, offset int) ([]*domain.OperationRecord, error) {
	records, err := p.logStore.ListByOperation(ctx, operation, limit, offset)
	if err != nil {
		p.logger.Error("failed to query operation records",
			"error", err,
			"operation", operation)
		return nil, NewProcessorError("query_data", fmt.Sprintf("failed to list %s records", operation), err)
	}

	p.logger.Debug("queried operation records",
		"operation", operation,
		"record_count", len(records))

	return records, nil
}

// CountOperations returns how many operation log records exist for the
// given operation name. An empty name counts records for all operations.
func (p *Processor) CountOperations(ctx context.Context, operation string) (int64, error) {
	count, err := p.logStore.CountByOperation(ctx, operation)
	if err != nil {
		p.logger.Error("failed to count operation records",
			"error", err,
			"operation", operation)
		return 0, NewProcessorError("count_operations", "failed to count operation records", err)
	}

	p.logger.Debug("counted operation records",
		"operation", operation,
		"record_count", count)

	return count, nil
}
