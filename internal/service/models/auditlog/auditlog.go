package auditlog

import "time"

const EntityOrder = "order"

// Entry is an activity_logs row describing an admin action on an entity.
type Entry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actorId"`
	ActorEmail string            `json:"actorEmail"`
	Action     string            `json:"action"`
	EntityType string            `json:"entityType"`
	EntityID   string            `json:"entityId"`
	Details    map[string]string `json:"details"`
	CreatedAt  time.Time         `json:"createdAt"`
}
