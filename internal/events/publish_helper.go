package events

// PublishHelper wraps event publishing with nil-safety convenience methods
// for the engine's four lifecycle events. All methods are safe to call
// even when the underlying publisher is nil.
type PublishHelper struct {
	publisher Publisher
}

// NewPublishHelper creates a new PublishHelper wrapping the given publisher.
// If p is nil, all publish operations become no-ops.
func NewPublishHelper(p Publisher) *PublishHelper {
	return &PublishHelper{publisher: p}
}

// Publish sends an event to the underlying publisher. Safe to call with a
// nil publisher or a nil *PublishHelper.
func (ep *PublishHelper) Publish(ev Event) {
	if ep == nil || ep.publisher == nil {
		return
	}
	ep.publisher.Publish(ev)
}

// TaskCreated publishes a task_created event.
func (ep *PublishHelper) TaskCreated(taskID, prefix string) {
	ep.Publish(NewEvent(EventTaskCreated, taskID, TaskCreatedData{Prefix: prefix}))
}

// TaskUpdated publishes a task_updated event naming the fields the patch
// touched.
func (ep *PublishHelper) TaskUpdated(taskID string, changedFields []string) {
	ep.Publish(NewEvent(EventTaskUpdated, taskID, TaskUpdatedData{ChangedFields: changedFields}))
}

// TaskDeleted publishes a task_deleted event.
func (ep *PublishHelper) TaskDeleted(taskID string, referencesCleaned bool) {
	ep.Publish(NewEvent(EventTaskDeleted, taskID, TaskDeletedData{ReferencesCleaned: referencesCleaned}))
}

// ConfigUpdated publishes a config_updated event. Uses GlobalTaskID since
// configuration is not scoped to one task.
func (ep *PublishHelper) ConfigUpdated(tier string) {
	ep.Publish(NewEvent(EventConfigUpdated, GlobalTaskID, ConfigUpdatedData{Tier: tier}))
}
