package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/courseloop/assessment-backend/internal/directory"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Attempt-side domain errors.
var (
	ErrExamNotPublished     = errors.New("exam is not published")
	ErrExamWindowClosed     = errors.New("exam window is closed")
	ErrNotEnrolled          = errors.New("student is not enrolled in this course")
	ErrAttemptQuotaExceeded = errors.New("attempt quota exhausted")
	ErrNotAttemptOwner      = errors.New("attempt belongs to another student")
	ErrAttemptNotActive     = errors.New("attempt is not in progress")
)

// AttemptService drives the attempt state machine: start (with resume),
// submit, and the student's own attempt views.
type AttemptService struct {
	pool         *pgxpool.Pool
	examRepo     *repository.ExamRepository
	examItemRepo *repository.ExamItemRepository
	attemptRepo  *repository.AttemptRepository
	answerRepo   *repository.AnswerRepository
	selector     *QuestionSelector
	dir          directory.Directory
	events       *EventPublisher
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	pool *pgxpool.Pool,
	examRepo *repository.ExamRepository,
	examItemRepo *repository.ExamItemRepository,
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	selector *QuestionSelector,
	dir directory.Directory,
	events *EventPublisher,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		pool:         pool,
		examRepo:     examRepo,
		examItemRepo: examItemRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		selector:     selector,
		dir:          dir,
		events:       events,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start opens a new attempt or resumes the student's in-progress one.
// Starting is idempotent per (exam, student): while an attempt is in
// progress, every call returns that same attempt without consuming
// quota. A concurrent duplicate start loses the insert and resumes the
// winner's attempt.
func (s *AttemptService) Start(ctx context.Context, claims *Claims, examID uuid.UUID) (*model.StartAttemptResult, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.Visibility != model.ExamPublished {
		return nil, ErrExamNotPublished
	}
	if !exam.WithinWindow(time.Now()) {
		return nil, ErrExamWindowClosed
	}

	enrolled, err := s.dir.IsEnrolled(ctx, claims.PrincipalID, exam.CourseID, exam.AcademicYear, exam.Semester)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	if existing, err := s.attemptRepo.GetInProgress(ctx, examID, claims.PrincipalID); err == nil {
		return s.buildStartResult(ctx, exam, existing, true)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check in-progress attempt: %w", err)
	}

	used, err := s.attemptRepo.CountByExamAndStudent(ctx, examID, claims.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	if used >= exam.MaxAttempts {
		return nil, ErrAttemptQuotaExceeded
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt := &model.ExamAttempt{
		ExamID:    examID,
		StudentID: claims.PrincipalID,
		Status:    model.AttemptInProgress,
	}
	if err := s.attemptRepo.Create(ctx, tx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race: another request opened the attempt first.
			winner, ferr := s.attemptRepo.GetInProgress(ctx, examID, claims.PrincipalID)
			if ferr != nil {
				return nil, fmt.Errorf("resume racing attempt: %w", ferr)
			}
			return s.buildStartResult(ctx, exam, winner, true)
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if _, err := s.selector.SelectForAttempt(ctx, tx, exam, attempt.ID, rng); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.events.PublishMonitor(ctx, MonitorEvent{
		Type:      MonitorAttemptStarted,
		ExamID:    examID,
		AttemptID: attempt.ID,
		StudentID: claims.PrincipalID,
	})
	return s.buildStartResult(ctx, exam, attempt, false)
}

func (s *AttemptService) buildStartResult(ctx context.Context, exam *model.Exam, attempt *model.ExamAttempt, resumed bool) (*model.StartAttemptResult, error) {
	questions, err := s.examItemRepo.ListAttemptQuestions(ctx, s.pool, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load attempt questions: %w", err)
	}
	used, err := s.attemptRepo.CountByExamAndStudent(ctx, exam.ID, attempt.StudentID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	remaining := exam.MaxAttempts - used
	if remaining < 0 {
		remaining = 0
	}
	return &model.StartAttemptResult{
		AttemptID:         attempt.ID,
		StartedAt:         attempt.StartedAt,
		DurationMinutes:   exam.DurationMinutes,
		RemainingAttempts: remaining,
		Resumed:           resumed,
		Questions:         questions,
	}, nil
}

// Submit finalizes an in-progress attempt. The objective score is the
// sum of saved objective answers; the maximum derives from the
// attempt's item set, so unanswered items count against the student.
// Attempts without theory items grade immediately; the rest wait in
// submitted for manual grading.
func (s *AttemptService) Submit(ctx context.Context, claims *Claims, attemptID uuid.UUID) (*model.SubmitAttemptResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetByIDForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != claims.PrincipalID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}

	objectiveSum, _, _, err := s.answerRepo.ScoreSums(ctx, tx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("sum answer scores: %w", err)
	}
	objectivePoints, theoryMarks, theoryCount, err := s.examItemRepo.AttemptScoreBasis(ctx, tx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt score basis: %w", err)
	}
	maxScore := objectivePoints + theoryMarks
	status := model.AttemptSubmitted
	if theoryCount == 0 {
		status = model.AttemptGraded
	}

	now := time.Now()
	if err := s.attemptRepo.Finalize(ctx, tx, attemptID, status, objectiveSum, maxScore, now); err != nil {
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	ev := MonitorEvent{
		Type:      MonitorAttemptSubmitted,
		ExamID:    attempt.ExamID,
		AttemptID: attemptID,
		StudentID: attempt.StudentID,
	}
	if status == model.AttemptGraded {
		ev.Type = MonitorAttemptGraded
		ev.TotalScore = &objectiveSum
	}
	s.events.PublishMonitor(ctx, ev)

	return &model.SubmitAttemptResult{
		AttemptID:  attemptID,
		TotalScore: objectiveSum,
		MaxScore:   maxScore,
		Status:     status,
	}, nil
}

// ListMine retrieves all attempts of the calling student.
func (s *AttemptService) ListMine(ctx context.Context, claims *Claims) ([]model.ExamAttempt, error) {
	attempts, err := s.attemptRepo.ListByStudent(ctx, claims.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.ExamAttempt{}
	}
	return attempts, nil
}

// GetReview loads one attempt with its questions and saved answers.
// Students see only their own attempts; staff may inspect any attempt
// on a course they control.
func (s *AttemptService) GetReview(ctx context.Context, claims *Claims, attemptID uuid.UUID) (*model.AttemptReview, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAttemptAccess(ctx, claims, attempt); err != nil {
		return nil, err
	}

	questions, err := s.examItemRepo.ListAttemptQuestions(ctx, s.pool, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load attempt questions: %w", err)
	}
	objective, err := s.answerRepo.ListObjectiveByAttempt(ctx, s.pool, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load objective answers: %w", err)
	}
	theory, err := s.answerRepo.ListTheoryByAttempt(ctx, s.pool, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load theory answers: %w", err)
	}

	if objective == nil {
		objective = []model.AnswerObjective{}
	}
	if theory == nil {
		theory = []model.AnswerTheory{}
	}
	return &model.AttemptReview{
		Attempt:   *attempt,
		Questions: questions,
		Objective: objective,
		Theory:    theory,
	}, nil
}

func (s *AttemptService) checkAttemptAccess(ctx context.Context, claims *Claims, attempt *model.ExamAttempt) error {
	switch claims.Role {
	case model.RoleStudent:
		if attempt.StudentID != claims.PrincipalID {
			return ErrNotAttemptOwner
		}
		return nil
	case model.RoleAdmin:
		return nil
	default:
		exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
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
}
