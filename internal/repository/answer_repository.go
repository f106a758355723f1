package repository

import (
	"context"
	"time"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerRepository handles objective and theory answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// UpsertObjective writes an objective answer keyed by (attempt, item).
// A second save for the same item overwrites the first — auto-save is
// idempotent by construction.
func (r *AnswerRepository) UpsertObjective(ctx context.Context, a *model.AnswerObjective) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answers_objective (attempt_id, exam_item_id, selected_option, is_correct, score, answered_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (attempt_id, exam_item_id) DO UPDATE
		 SET selected_option = EXCLUDED.selected_option,
		     is_correct = EXCLUDED.is_correct,
		     score = EXCLUDED.score,
		     answered_at = EXCLUDED.answered_at
		 RETURNING id, answered_at`,
		a.AttemptID, a.ExamItemID, a.SelectedOption, a.IsCorrect, a.Score,
	).Scan(&a.ID, &a.AnsweredAt)
}

// UpsertTheory writes a theory answer keyed by (attempt, item). Grading
// fields are untouched so regrading state survives a re-save during an
// in-progress attempt.
func (r *AnswerRepository) UpsertTheory(ctx context.Context, a *model.AnswerTheory) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answers_theory (attempt_id, exam_item_id, answer_text, file_url, answered_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (attempt_id, exam_item_id) DO UPDATE
		 SET answer_text = EXCLUDED.answer_text,
		     file_url = EXCLUDED.file_url,
		     answered_at = EXCLUDED.answered_at
		 RETURNING id, answered_at`,
		a.AttemptID, a.ExamItemID, a.AnswerText, a.FileURL,
	).Scan(&a.ID, &a.AnsweredAt)
}

// ListObjectiveByAttempt retrieves all objective answers of one attempt.
func (r *AnswerRepository) ListObjectiveByAttempt(ctx context.Context, q Querier, attemptID uuid.UUID) ([]model.AnswerObjective, error) {
	rows, err := q.Query(ctx,
		`SELECT id, attempt_id, exam_item_id, selected_option, is_correct, score, answered_at
		 FROM answers_objective WHERE attempt_id = $1`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AnswerObjective
	for rows.Next() {
		var a model.AnswerObjective
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.ExamItemID, &a.SelectedOption, &a.IsCorrect, &a.Score, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListTheoryByAttempt retrieves all theory answers of one attempt.
func (r *AnswerRepository) ListTheoryByAttempt(ctx context.Context, q Querier, attemptID uuid.UUID) ([]model.AnswerTheory, error) {
	rows, err := q.Query(ctx,
		`SELECT id, attempt_id, exam_item_id, answer_text, file_url, score, feedback,
		        graded_at, graded_by, answered_at
		 FROM answers_theory WHERE attempt_id = $1`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AnswerTheory
	for rows.Next() {
		var a model.AnswerTheory
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.ExamItemID, &a.AnswerText, &a.FileURL,
			&a.Score, &a.Feedback, &a.GradedAt, &a.GradedBy, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListTheoryForGrading joins an attempt's theory answers with their bank
// questions for the instructor grading view.
func (r *AnswerRepository) ListTheoryForGrading(ctx context.Context, attemptID uuid.UUID) ([]model.TheoryAnswerForGrading, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT at.id, at.attempt_id, at.exam_item_id, at.answer_text, at.file_url,
		        at.score, at.feedback, at.graded_at, at.graded_by, at.answered_at,
		        b.question_text, b.max_marks, b.rubric
		 FROM answers_theory at
		 JOIN exam_items ei ON at.exam_item_id = ei.id
		 JOIN bank_items b ON ei.question_id = b.id
		 WHERE at.attempt_id = $1
		 ORDER BY ei.order_num`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TheoryAnswerForGrading
	for rows.Next() {
		var g model.TheoryAnswerForGrading
		if err := rows.Scan(
			&g.Answer.ID, &g.Answer.AttemptID, &g.Answer.ExamItemID, &g.Answer.AnswerText,
			&g.Answer.FileURL, &g.Answer.Score, &g.Answer.Feedback, &g.Answer.GradedAt,
			&g.Answer.GradedBy, &g.Answer.AnsweredAt,
			&g.QuestionText, &g.MaxMarks, &g.Rubric,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetTheoryForGrading retrieves one theory answer with the bank item's
// maximum marks, which bound any awarded score.
func (r *AnswerRepository) GetTheoryForGrading(ctx context.Context, q Querier, answerID uuid.UUID) (*model.AnswerTheory, float64, error) {
	a := &model.AnswerTheory{}
	var maxMarks float64
	err := q.QueryRow(ctx,
		`SELECT at.id, at.attempt_id, at.exam_item_id, at.answer_text, at.file_url,
		        at.score, at.feedback, at.graded_at, at.graded_by, at.answered_at,
		        b.max_marks
		 FROM answers_theory at
		 JOIN exam_items ei ON at.exam_item_id = ei.id
		 JOIN bank_items b ON ei.question_id = b.id
		 WHERE at.id = $1`, answerID,
	).Scan(&a.ID, &a.AttemptID, &a.ExamItemID, &a.AnswerText, &a.FileURL,
		&a.Score, &a.Feedback, &a.GradedAt, &a.GradedBy, &a.AnsweredAt, &maxMarks)
	if err != nil {
		return nil, 0, err
	}
	return a, maxMarks, nil
}

// UpdateTheoryGrade writes the awarded score and feedback of one theory
// answer. Runs inside the caller's grading transaction.
func (r *AnswerRepository) UpdateTheoryGrade(ctx context.Context, q Querier, answerID uuid.UUID, score float64, feedback *string, gradedBy int, gradedAt time.Time) error {
	_, err := q.Exec(ctx,
		`UPDATE answers_theory
		 SET score = $1, feedback = $2, graded_by = $3, graded_at = $4
		 WHERE id = $5`,
		score, feedback, gradedBy, gradedAt, answerID,
	)
	return err
}

// ScoreSums returns the persisted objective and theory score sums of one
// attempt plus the count of still-ungraded theory answers. Recomputation
// always reads these sums, never a cached running total.
func (r *AnswerRepository) ScoreSums(ctx context.Context, q Querier, attemptID uuid.UUID) (objectiveSum, theorySum float64, ungradedTheory int, err error) {
	err = q.QueryRow(ctx,
		`SELECT
			COALESCE((SELECT SUM(score) FROM answers_objective WHERE attempt_id = $1), 0),
			COALESCE((SELECT SUM(score) FROM answers_theory WHERE attempt_id = $1 AND score IS NOT NULL), 0),
			(SELECT COUNT(*) FROM answers_theory WHERE attempt_id = $1 AND score IS NULL)`,
		attemptID,
	).Scan(&objectiveSum, &theorySum, &ungradedTheory)
	return objectiveSum, theorySum, ungradedTheory, err
}
