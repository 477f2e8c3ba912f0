package movement

import "time"

// EventType names a change applied to a movement
type EventType string

const (
	EventCreated EventType = "movement.created"
	EventUpdated EventType = "movement.updated"
	EventDeleted EventType = "movement.deleted"
)

// Event describes a single-record change. Movement is nil for deletions.
type Event struct {
	Type          EventType `json:"type"`
	MovementID    string    `json:"movement_id"`
	Movement      *Movement `json:"movement,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent builds an event stamped with the current UTC time
func NewEvent(typ EventType, id string, m *Movement, correlationID string) *Event {
	return &Event{
		Type:          typ,
		MovementID:    id,
		Movement:      m,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}
