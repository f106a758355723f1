package model

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the engine. Audit writes are best-effort:
// they are queued fire-and-forget and never abort the primary operation.
const (
	AuditExamUpdated = "exam.updated"
	AuditExamDeleted = "exam.deleted"
	AuditBulkGraded  = "attempt.bulk_graded"
)

// AuditEvent is one durable audit record.
type AuditEvent struct {
	ID         int64           `json:"id"`
	ActorID    int             `json:"actor_id"`
	ActorRole  Role            `json:"actor_role"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
