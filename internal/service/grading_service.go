package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/courseloop/assessment-backend/internal/directory"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Grading-side domain errors.
var (
	ErrScoreAboveMax      = errors.New("awarded score exceeds maximum marks")
	ErrAttemptNotGradable = errors.New("attempt has not been submitted")
	ErrAnswerNotInAttempt = errors.New("answer does not belong to this attempt")
)

// GradingService handles manual and bulk grading of theory answers.
// Both paths recompute attempt totals from the persisted answer rows
// under a row lock, never from a running total, so concurrent graders
// on the same attempt cannot lose updates.
type GradingService struct {
	pool        *pgxpool.Pool
	examRepo    *repository.ExamRepository
	attemptRepo *repository.AttemptRepository
	answerRepo  *repository.AnswerRepository
	dir         directory.Directory
	events      *EventPublisher
	log         zerolog.Logger
}

// NewGradingService creates a new GradingService.
func NewGradingService(
	pool *pgxpool.Pool,
	examRepo *repository.ExamRepository,
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	dir directory.Directory,
	events *EventPublisher,
	log zerolog.Logger,
) *GradingService {
	return &GradingService{
		pool:        pool,
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		dir:         dir,
		events:      events,
		log:         log.With().Str("component", "grading_service").Logger(),
	}
}

func (s *GradingService) requireGraderAccess(ctx context.Context, claims *Claims, examID uuid.UUID) error {
	if claims.Role == model.RoleAdmin {
		return nil
	}
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return err
	}
	owned, err := s.dir.IsCourseOwnedBy(ctx, exam.CourseID, claims.PrincipalID)
	if err != nil {
		return fmt.Errorf("check course ownership: %w", err)
	}
	if !owned {
		return ErrNotCourseOwner
	}
	return nil
}

// ListForGrading retrieves an attempt's theory answers joined with their
// questions, in item order.
func (s *GradingService) ListForGrading(ctx context.Context, claims *Claims, attemptID uuid.UUID) ([]model.TheoryAnswerForGrading, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGraderAccess(ctx, claims, attempt.ExamID); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListTheoryForGrading(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list theory answers: %w", err)
	}
	if answers == nil {
		answers = []model.TheoryAnswerForGrading{}
	}
	return answers, nil
}

// GradeSingle scores one theory answer. Scores above the item's maximum
// marks are rejected. When this grade completes the attempt — every
// theory answer now carries a score — the attempt total is recomputed
// and the attempt transitions to graded.
func (s *GradingService) GradeSingle(ctx context.Context, claims *Claims, answerID uuid.UUID, req *model.GradeAnswerRequest) (*model.AnswerTheory, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	answer, maxMarks, err := s.answerRepo.GetTheoryForGrading(ctx, tx, answerID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.attemptRepo.GetByIDForUpdate(ctx, tx, answer.AttemptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGraderAccess(ctx, claims, attempt.ExamID); err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptInProgress {
		return nil, ErrAttemptNotGradable
	}
	if req.Score > maxMarks {
		return nil, fmt.Errorf("%w: %.2f > %.2f", ErrScoreAboveMax, req.Score, maxMarks)
	}

	now := time.Now()
	if err := s.answerRepo.UpdateTheoryGrade(ctx, tx, answerID, req.Score, req.Feedback, claims.PrincipalID, now); err != nil {
		return nil, fmt.Errorf("write grade: %w", err)
	}

	total, complete, err := s.recompute(ctx, tx, attempt, claims.PrincipalID, now, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	if complete {
		s.publishGraded(ctx, attempt, total)
	}

	answer.Score = &req.Score
	answer.Feedback = req.Feedback
	answer.GradedAt = &now
	answer.GradedBy = &claims.PrincipalID
	return answer, nil
}

// BulkGrade scores multiple theory answers of one attempt in one
// transaction. Out-of-range scores are clamped into [0, max_marks]
// instead of rejected, and the attempt is marked graded afterwards even
// if some theory answers were left out of the batch. An empty batch is
// legal and simply finalizes the attempt from the persisted scores —
// without it, an attempt whose theory items were never answered would
// be stuck in submitted forever.
func (s *GradingService) BulkGrade(ctx context.Context, claims *Claims, attemptID uuid.UUID, req *model.BulkGradeRequest) (*model.ExamAttempt, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetByIDForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGraderAccess(ctx, claims, attempt.ExamID); err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptInProgress {
		return nil, ErrAttemptNotGradable
	}

	now := time.Now()
	for _, entry := range req.Entries {
		answer, maxMarks, err := s.answerRepo.GetTheoryForGrading(ctx, tx, entry.AnswerID)
		if err != nil {
			return nil, err
		}
		if answer.AttemptID != attemptID {
			return nil, fmt.Errorf("answer %s: %w", entry.AnswerID, ErrAnswerNotInAttempt)
		}
		score := clampScore(entry.Score, maxMarks)
		if err := s.answerRepo.UpdateTheoryGrade(ctx, tx, entry.AnswerID, score, entry.Feedback, claims.PrincipalID, now); err != nil {
			return nil, fmt.Errorf("write grade: %w", err)
		}
	}

	total, _, err := s.recompute(ctx, tx, attempt, claims.PrincipalID, now, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.publishGraded(ctx, attempt, total)

	detail, _ := json.Marshal(map[string]any{
		"attempt_id": attemptID,
		"entries":    len(req.Entries),
	})
	s.events.EnqueueAudit(ctx, model.AuditEvent{
		ActorID:    claims.PrincipalID,
		ActorRole:  claims.Role,
		Action:     model.AuditBulkGraded,
		EntityType: "exam_attempt",
		EntityID:   attemptID.String(),
		Detail:     detail,
	})

	attempt.Status = model.AttemptGraded
	attempt.TotalScore = total
	attempt.GradedAt = &now
	attempt.GradedBy = &claims.PrincipalID
	return attempt, nil
}

// recompute sums the persisted objective and theory scores and, when
// grading is complete (or forced by bulk grading), writes the final
// total and the graded state. Returns the total and whether the attempt
// was marked graded.
func (s *GradingService) recompute(ctx context.Context, q repository.Querier, attempt *model.ExamAttempt, gradedBy int, gradedAt time.Time, force bool) (float64, bool, error) {
	objectiveSum, theorySum, ungraded, err := s.answerRepo.ScoreSums(ctx, q, attempt.ID)
	if err != nil {
		return 0, false, fmt.Errorf("sum answer scores: %w", err)
	}
	total := objectiveSum + theorySum
	if !force && ungraded > 0 {
		return total, false, nil
	}
	if err := s.attemptRepo.MarkGraded(ctx, q, attempt.ID, total, gradedBy, gradedAt); err != nil {
		return 0, false, fmt.Errorf("mark graded: %w", err)
	}
	return total, true, nil
}

func (s *GradingService) publishGraded(ctx context.Context, attempt *model.ExamAttempt, total float64) {
	s.events.PublishMonitor(ctx, MonitorEvent{
		Type:       MonitorAttemptGraded,
		ExamID:     attempt.ExamID,
		AttemptID:  attempt.ID,
		StudentID:  attempt.StudentID,
		TotalScore: &total,
	})
}

func clampScore(score, max float64) float64 {
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}
