package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MonitorEventType enumerates attempt lifecycle events streamed to the
// staff exam monitor.
type MonitorEventType string

const (
	MonitorAttemptStarted   MonitorEventType = "attempt_started"
	MonitorAttemptSubmitted MonitorEventType = "attempt_submitted"
	MonitorAttemptGraded    MonitorEventType = "attempt_graded"
)

// MonitorEvent is one message on an exam's monitor channel.
type MonitorEvent struct {
	Type       MonitorEventType `json:"type"`
	ExamID     uuid.UUID        `json:"exam_id"`
	AttemptID  uuid.UUID        `json:"attempt_id"`
	StudentID  int              `json:"student_id"`
	TotalScore *float64         `json:"total_score,omitempty"`
	At         time.Time        `json:"at"`
}

// EventPublisher fans attempt lifecycle events out to the exam monitor
// channel and pushes audit records onto the persistence queue. Both
// paths are fire-and-forget: failures are logged and never abort or
// roll back the calling operation.
type EventPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(rdb *redis.Client, log zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// PublishMonitor sends a monitor event on the exam's PubSub channel.
func (p *EventPublisher) PublishMonitor(ctx context.Context, ev MonitorEvent) {
	ev.At = time.Now()
	raw, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal monitor event")
		return
	}
	channel := config.CacheKey.ExamMonitorChannel(ev.ExamID.String())
	if err := p.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Msg("publish monitor event failed")
	}
}

// EnqueueAudit pushes an audit event onto the Redis queue drained by the
// audit worker.
func (p *EventPublisher) EnqueueAudit(ctx context.Context, ev model.AuditEvent) {
	raw, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal audit event")
		return
	}
	if err := p.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, raw).Err(); err != nil {
		p.log.Warn().Err(err).Str("action", ev.Action).Msg("enqueue audit event failed")
	}
}
