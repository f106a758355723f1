package repository

import (
	"context"
	"time"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attemptColumns = `id, exam_id, student_id, status, started_at, submitted_at,
	graded_at, graded_by, total_score, max_score`

// AttemptRepository handles exam attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

func scanAttempt(row interface{ Scan(...any) error }, a *model.ExamAttempt) error {
	return row.Scan(
		&a.ID, &a.ExamID, &a.StudentID, &a.Status, &a.StartedAt, &a.SubmittedAt,
		&a.GradedAt, &a.GradedBy, &a.TotalScore, &a.MaxScore,
	)
}

// Create inserts a new in-progress attempt. The partial unique index on
// (exam_id, student_id) WHERE status = 'in_progress' makes concurrent
// duplicate starts lose the insert; losers get pgx.ErrNoRows and must
// re-read the winner's row.
func (r *AttemptRepository) Create(ctx context.Context, q Querier, a *model.ExamAttempt) error {
	return q.QueryRow(ctx,
		`INSERT INTO exam_attempts (exam_id, student_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (exam_id, student_id) WHERE status = 'in_progress' DO NOTHING
		 RETURNING id, started_at`,
		a.ExamID, a.StudentID, model.AttemptInProgress,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1`, id,
	), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByIDForUpdate retrieves an attempt with a row lock. Must run inside
// the caller's transaction; submit and grading recomputation serialize
// on this lock.
func (r *AttemptRepository) GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := scanAttempt(q.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1 FOR UPDATE`, id,
	), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetInProgress retrieves the single in-progress attempt of a student on
// an exam, if any.
func (r *AttemptRepository) GetInProgress(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+`
		 FROM exam_attempts
		 WHERE exam_id = $1 AND student_id = $2 AND status = $3`,
		examID, studentID, model.AttemptInProgress,
	), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CountByExamAndStudent counts every attempt a student has ever created
// on an exam, regardless of status.
func (r *AttemptRepository) CountByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE exam_id = $1 AND student_id = $2`,
		examID, studentID,
	).Scan(&n)
	return n, err
}

// ListByStudent retrieves all attempts of one student, newest first.
func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID int) ([]model.ExamAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM exam_attempts
		 WHERE student_id = $1
		 ORDER BY started_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.ExamAttempt
	for rows.Next() {
		var a model.ExamAttempt
		if err := scanAttempt(rows, &a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Finalize writes the outcome of a submit: scores, status, and the
// submitted timestamp. When the attempt auto-grades (no theory items)
// the graded timestamp is set in the same write.
func (r *AttemptRepository) Finalize(ctx context.Context, q Querier, id uuid.UUID, status model.AttemptStatus, totalScore, maxScore float64, submittedAt time.Time) error {
	var gradedAt *time.Time
	if status == model.AttemptGraded {
		gradedAt = &submittedAt
	}
	_, err := q.Exec(ctx,
		`UPDATE exam_attempts
		 SET status = $1, total_score = $2, max_score = $3, submitted_at = $4, graded_at = $5
		 WHERE id = $6`,
		status, totalScore, maxScore, submittedAt, gradedAt, id,
	)
	return err
}

// MarkGraded records the final total and the grading principal once all
// theory answers carry a score.
func (r *AttemptRepository) MarkGraded(ctx context.Context, q Querier, id uuid.UUID, totalScore float64, gradedBy int, gradedAt time.Time) error {
	_, err := q.Exec(ctx,
		`UPDATE exam_attempts
		 SET status = $1, total_score = $2, graded_by = $3, graded_at = $4
		 WHERE id = $5`,
		model.AttemptGraded, totalScore, gradedBy, gradedAt, id,
	)
	return err
}
