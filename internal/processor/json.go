package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/acrelle/dataproc/internal/domain"
)

// ErrInvalidJSON indicates that a payload could not be parsed as JSON.
var ErrInvalidJSON = errors.New("invalid JSON payload")

// ProcessJSON parses the given payload and returns the number of top-level
// elements: array length, object key count, 0 for null, 1 for any other
// value. Malformed input returns an error wrapping ErrInvalidJSON.
func (p *Processor) ProcessJSON(ctx context.Context, data []byte) (int, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		p.logger.Error("failed to parse JSON payload",
			"error", err,
			"payload_bytes", len(data))
		wrapped := fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		p.recordFailure(ctx, domain.OperationJSONProcess, wrapped)
		return 0, wrapped
	}

	count := countTopLevel(parsed)

	p.logger.Info("processed JSON payload",
		"payload_bytes", len(data),
		"element_count", count)
	p.recordSuccess(ctx, domain.OperationJSONProcess,
		fmt.Sprintf("parsed JSON payload with %d top-level elements", count))

	return count, nil
}

// countTopLevel counts the top-level elements of a decoded JSON value.
func countTopLevel(parsed any) int {
	switch v := parsed.(type) {
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	case nil:
		return 0
	default:
		return 1
	}
}
