// Package events provides the in-process event bus: publish/subscribe
// fan-out over the four task/config lifecycle events the engine emits.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies one of the lifecycle events the engine emits.
type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskUpdated   EventType = "task_updated"
	EventTaskDeleted   EventType = "task_deleted"
	EventConfigUpdated EventType = "config_updated"
)

// Event is one published occurrence. TaskID is GlobalTaskID for config_updated.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
	Data   any       `json:"data"`
	Time   time.Time `json:"time"`
}

// NewEvent creates a new event with a fresh UUID and the current timestamp.
func NewEvent(eventType EventType, taskID string, data any) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		TaskID: taskID,
		Data:   data,
		Time:   time.Now(),
	}
}

// TaskCreatedData is the payload of a task_created event.
type TaskCreatedData struct {
	Prefix string `json:"prefix"`
}

// TaskUpdatedData is the payload of a task_updated event: the set of
// field names the patch touched, for subscribers that only care about
// specific fields (e.g. a status-change webhook).
type TaskUpdatedData struct {
	ChangedFields []string `json:"changed_fields"`
}

// TaskDeletedData is the payload of a task_deleted event.
type TaskDeletedData struct {
	// ReferencesCleaned reports whether deleting the task also pruned
	// dangling edges (parent/children/blocks/blocked_by/relates/duplicates)
	// pointing at it from other tasks' Relationships.
	ReferencesCleaned bool `json:"references_cleaned"`
}

// ConfigUpdatedData is the payload of a config_updated event.
type ConfigUpdatedData struct {
	Tier string `json:"tier"`
}
