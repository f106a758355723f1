package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue into PostgreSQL in batches. The
// queue decouples request latency from audit persistence; a lost event
// is acceptable, a slow request is not.
type AuditWorker struct {
	auditRepo *repository.AuditRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

func NewAuditWorker(auditRepo *repository.AuditRepository, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		auditRepo: auditRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "audit_worker").Logger(),
	}
}

// Start runs the drain loop until ctx is cancelled, then flushes what
// is left in the batch.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]model.AuditEvent, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.PersistAuditQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev model.AuditEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			if ev.CreatedAt.IsZero() {
				ev.CreatedAt = time.Now()
			}

			batch = append(batch, ev)
		}
	}
}

// flushSafe writes the batch, falling back to row-at-a-time inserts
// when the bulk write fails. Rows that still fail go back on the queue.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.AuditEvent) {
	if len(batch) == 0 {
		return
	}

	if err := w.auditRepo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk audit insert failed, using fallback")

		for i := range batch {
			if err := w.auditRepo.Insert(ctx, &batch[i]); err != nil {
				w.log.Error().Err(err).Msg("single audit insert failed — requeueing")
				raw, _ := json.Marshal(batch[i])
				w.rdb.RPush(ctx, config.WorkerKey.PersistAuditQueue, raw)
			}
		}
	}
}
