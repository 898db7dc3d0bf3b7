package event

import "github.com/google/uuid"

// Publisher defines the interface services use to announce recomputed data
type Publisher interface {
	// Publish sends an event to all clients connected for the given user
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements Publisher
var _ Publisher = (*Hub)(nil)

// Publish implements Publisher by broadcasting the event to the user's clients
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for tests)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
