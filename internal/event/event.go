package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the kind of change an event describes
type EventType string

const (
	EventTypeUpdated      EventType = "updated"
	EventTypeRecalculated EventType = "recalculated"
)

// EntityType represents the entity the event is about
type EntityType string

const (
	EntityTypeSummary EntityType = "summary"
	EntityTypeBudget  EntityType = "budget"
)

// Event is the message broadcast to connected clients after a recompute.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // Combined type e.g. "summary.updated"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SummaryUpdated creates a summary.updated event
func SummaryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSummary, payload)
}

// SummaryRecalculated creates a summary.recalculated event
func SummaryRecalculated(payload interface{}) Event {
	return NewEvent(EventTypeRecalculated, EntityTypeSummary, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}
