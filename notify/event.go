// Package notify delivers best-effort change events to external systems
// after a write has committed. Delivery is at most once: a full queue or an
// exhausted retry budget drops the event with a log line.
package notify

import (
	"context"
	"time"
)

type EventKind string

const (
	PublishingChanged EventKind = "publishing_changed"
	Deleted           EventKind = "deleted"
)

// Entity types carried in events
const (
	EntityProperty = "property"
	EntityProject  = "project"
)

// Collection is the plural path segment of an entity type
func Collection(entityType string) string {
	switch entityType {
	case EntityProperty:
		return "properties"
	case EntityProject:
		return "projects"
	}
	return entityType
}

// Event describes one committed change to a listing or project
type Event struct {
	Kind       EventKind   `json:"kind"`
	EntityType string      `json:"entityType"`
	ID         string      `json:"id"`
	Slug       string      `json:"slug"`
	Status     string      `json:"status,omitempty"`
	Public     bool        `json:"public"`
	Document   interface{} `json:"document,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Sink is one external consumer of events
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}
