package repository

import (
	"context"
	"fmt"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const examColumns = `id, course_id, academic_year, semester, title, instructions,
	start_at, end_at, duration_minutes, visibility, randomize, exam_type,
	selection_mode, objective_count, theory_count, max_attempts, created_by,
	created_at, updated_at`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

func scanExam(row interface{ Scan(...any) error }, e *model.Exam) error {
	return row.Scan(
		&e.ID, &e.CourseID, &e.AcademicYear, &e.Semester, &e.Title, &e.Instructions,
		&e.StartAt, &e.EndAt, &e.DurationMinutes, &e.Visibility, &e.Randomize,
		&e.ExamType, &e.SelectionMode, &e.ObjectiveCount, &e.TheoryCount,
		&e.MaxAttempts, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
}

// Create inserts a new exam. Runs inside the caller's transaction when
// manual template items are seeded in the same operation.
func (r *ExamRepository) Create(ctx context.Context, q Querier, e *model.Exam) error {
	return q.QueryRow(ctx,
		`INSERT INTO exams (course_id, academic_year, semester, title, instructions,
			start_at, end_at, duration_minutes, visibility, randomize, exam_type,
			selection_mode, objective_count, theory_count, max_attempts, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		e.CourseID, e.AcademicYear, e.Semester, e.Title, e.Instructions,
		e.StartAt, e.EndAt, e.DurationMinutes, e.Visibility, e.Randomize, e.ExamType,
		e.SelectionMode, e.ObjectiveCount, e.TheoryCount, e.MaxAttempts, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id,
	), e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Update persists all mutable columns of an exam.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, instructions = $2, start_at = $3, end_at = $4,
		     duration_minutes = $5, visibility = $6, randomize = $7,
		     objective_count = $8, theory_count = $9, max_attempts = $10,
		     updated_at = NOW()
		 WHERE id = $11`,
		e.Title, e.Instructions, e.StartAt, e.EndAt,
		e.DurationMinutes, e.Visibility, e.Randomize,
		e.ObjectiveCount, e.TheoryCount, e.MaxAttempts, e.ID,
	)
	return err
}

// List retrieves exams for a course with optional filters and pagination.
func (r *ExamRepository) List(ctx context.Context, f model.ExamFilter, limit, offset int) ([]model.Exam, int64, error) {
	baseQuery := ` FROM exams WHERE course_id = $1`
	args := []any{f.CourseID}

	if f.AcademicYear != nil {
		args = append(args, *f.AcademicYear)
		baseQuery += fmt.Sprintf(" AND academic_year = $%d", len(args))
	}
	if f.Semester != nil {
		args = append(args, *f.Semester)
		baseQuery += fmt.Sprintf(" AND semester = $%d", len(args))
	}
	if f.Visibility != nil {
		args = append(args, *f.Visibility)
		baseQuery += fmt.Sprintf(" AND visibility = $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + examColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := scanExam(rows, &e); err != nil {
			return nil, 0, err
		}
		exams = append(exams, e)
	}
	return exams, total, rows.Err()
}

// DeleteCascade removes an exam and everything under it: answers first,
// then attempts, then items, then the exam row. Must run inside the
// caller's transaction so a failure at any step rolls everything back.
func (r *ExamRepository) DeleteCascade(ctx context.Context, q Querier, examID uuid.UUID) error {
	steps := []string{
		`DELETE FROM answers_objective WHERE attempt_id IN
			(SELECT id FROM exam_attempts WHERE exam_id = $1)`,
		`DELETE FROM answers_theory WHERE attempt_id IN
			(SELECT id FROM exam_attempts WHERE exam_id = $1)`,
		`DELETE FROM exam_attempts WHERE exam_id = $1`,
		`DELETE FROM exam_items WHERE exam_id = $1`,
		`DELETE FROM exams WHERE id = $1`,
	}
	for _, stmt := range steps {
		if _, err := q.Exec(ctx, stmt, examID); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}
	return nil
}

// Statistics aggregates graded attempts of one exam. Returns zero values
// when no attempt has been graded yet.
func (r *ExamRepository) Statistics(ctx context.Context, examID uuid.UUID) (*model.ExamStatistics, error) {
	s := &model.ExamStatistics{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(total_score), 0),
		        COALESCE(MAX(total_score), 0),
		        COALESCE(MIN(total_score), 0)
		 FROM exam_attempts
		 WHERE exam_id = $1 AND status = $2`,
		examID, model.AttemptGraded,
	).Scan(&s.TotalAttempts, &s.AverageScore, &s.HighestScore, &s.LowestScore)
	if err != nil {
		return nil, err
	}
	return s, nil
}
