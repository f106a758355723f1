package repository

import (
	"context"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository persists audit events drained from the Redis queue.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch writes a batch of audit events in one round trip.
func (r *AuditRepository) InsertBatch(ctx context.Context, events []model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	actorIDs := make([]int, 0, len(events))
	actorRoles := make([]string, 0, len(events))
	actions := make([]string, 0, len(events))
	entityTypes := make([]string, 0, len(events))
	entityIDs := make([]string, 0, len(events))
	details := make([][]byte, 0, len(events))

	for _, e := range events {
		actorIDs = append(actorIDs, e.ActorID)
		actorRoles = append(actorRoles, string(e.ActorRole))
		actions = append(actions, e.Action)
		entityTypes = append(entityTypes, e.EntityType)
		entityIDs = append(entityIDs, e.EntityID)
		details = append(details, e.Detail)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (actor_id, actor_role, action, entity_type, entity_id, detail)
		 SELECT * FROM unnest($1::int[], $2::text[], $3::text[], $4::text[], $5::text[], $6::jsonb[])`,
		actorIDs, actorRoles, actions, entityTypes, entityIDs, details,
	)
	return err
}

// Insert writes a single audit event; the worker's fallback path when a
// batch insert fails.
func (r *AuditRepository) Insert(ctx context.Context, e *model.AuditEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (actor_id, actor_role, action, entity_type, entity_id, detail)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ActorID, e.ActorRole, e.Action, e.EntityType, e.EntityID, e.Detail,
	)
	return err
}
