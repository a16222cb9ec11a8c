package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OperationEvent announces the outcome of a processing operation.
// It contains the necessary information for audit handlers without
// direct dependencies on the processor package.
type OperationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Operation names the processing operation the event reports
	Operation string `json:"operation"`

	// Payload contains the operation-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// OperationOutcome is the standard payload shape emitted for completed
// operations. Error is empty for successful operations.
type OperationOutcome struct {
	Details string `json:"details"`
	Error   string `json:"error,omitempty"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *OperationEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewOperationEvent creates a new OperationEvent for the named operation.
func NewOperationEvent(operation string, payload interface{}) (*OperationEvent, error) {
	// Serialize the payload to JSON
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OperationEvent{
		ID:        uuid.New(),
		Operation: operation,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *OperationEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the processor to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *OperationEvent) error
}
