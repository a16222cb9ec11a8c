package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known operation names recorded in the operation log.
const (
	OperationDataStorage = "data_storage"
	OperationJSONProcess = "json_processing"
	OperationCompression = "compression"
	OperationEncryption  = "encryption"
	OperationHashing     = "hashing"
	OperationRegexMatch  = "regex_matching"
	OperationDirectory   = "directory_scan"
	OperationAsync       = "async_processing"
)

// OperationRecord represents one row of the operation log: a processing
// operation that was performed, with its free-form details. Details may be
// empty; everything else is required.
type OperationRecord struct {
	ID        uuid.UUID `json:"id"`
	Operation string    `json:"operation"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOperationRecord creates a new OperationRecord for the given operation
// name and details. It generates a new UUID for the record ID and sets the
// creation timestamp. Returns an error if validation fails.
func NewOperationRecord(operation, details string) (*OperationRecord, error) {
	record := &OperationRecord{
		ID:        uuid.New(),
		Operation: operation,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the OperationRecord has valid data.
// Returns an error if any field fails validation.
func (r *OperationRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrRecordIDEmpty
	}

	if r.Operation == "" {
		return ErrRecordOperationEmpty
	}

	if r.CreatedAt.IsZero() {
		return ErrRecordTimestampZero
	}

	return nil
}
