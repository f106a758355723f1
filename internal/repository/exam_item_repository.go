package repository

import (
	"context"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamItemRepository handles exam item (template and attempt) data access.
type ExamItemRepository struct {
	pool *pgxpool.Pool
}

// NewExamItemRepository creates a new ExamItemRepository.
func NewExamItemRepository(pool *pgxpool.Pool) *ExamItemRepository {
	return &ExamItemRepository{pool: pool}
}

// CreateTemplateItems inserts one template item per question ID, in the
// given order, with order numbers starting at 1.
func (r *ExamItemRepository) CreateTemplateItems(ctx context.Context, q Querier, examID uuid.UUID, questionIDs []uuid.UUID) error {
	for i, qid := range questionIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO exam_items (exam_id, attempt_id, question_id, order_num)
			 VALUES ($1, NULL, $2, $3)`,
			examID, qid, i+1,
		); err != nil {
			return err
		}
	}
	return nil
}

// CreateAttemptItems inserts the materialized item set of one attempt.
func (r *ExamItemRepository) CreateAttemptItems(ctx context.Context, q Querier, items []model.ExamItem) error {
	for i := range items {
		if err := q.QueryRow(ctx,
			`INSERT INTO exam_items (exam_id, attempt_id, question_id, order_num)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			items[i].ExamID, items[i].AttemptID, items[i].QuestionID, items[i].OrderNum,
		).Scan(&items[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// ListTemplates retrieves an exam's template items in order.
func (r *ExamItemRepository) ListTemplates(ctx context.Context, q Querier, examID uuid.UUID) ([]model.ExamItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, exam_id, attempt_id, question_id, order_num
		 FROM exam_items
		 WHERE exam_id = $1 AND attempt_id IS NULL
		 ORDER BY order_num`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ExamItem
	for rows.Next() {
		var it model.ExamItem
		if err := rows.Scan(&it.ID, &it.ExamID, &it.AttemptID, &it.QuestionID, &it.OrderNum); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetAttemptItem retrieves one attempt-scoped item by ID.
func (r *ExamItemRepository) GetAttemptItem(ctx context.Context, id uuid.UUID) (*model.ExamItem, error) {
	it := &model.ExamItem{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, attempt_id, question_id, order_num
		 FROM exam_items WHERE id = $1`, id,
	).Scan(&it.ID, &it.ExamID, &it.AttemptID, &it.QuestionID, &it.OrderNum)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListAttemptQuestions retrieves the student-facing question set of one
// attempt, joined with the bank. Correct options are not selected.
func (r *ExamItemRepository) ListAttemptQuestions(ctx context.Context, q Querier, attemptID uuid.UUID) ([]model.AttemptQuestion, error) {
	rows, err := q.Query(ctx,
		`SELECT ei.id, ei.order_num, b.kind, b.question_text, b.options,
		        b.points, b.max_marks, b.image_url, b.video_url
		 FROM exam_items ei
		 JOIN bank_items b ON ei.question_id = b.id
		 WHERE ei.attempt_id = $1
		 ORDER BY ei.order_num`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.AttemptQuestion
	for rows.Next() {
		var aq model.AttemptQuestion
		if err := rows.Scan(
			&aq.ExamItemID, &aq.OrderNum, &aq.QuestionType, &aq.QuestionText,
			&aq.Options, &aq.Points, &aq.MaxMarks, &aq.ImageURL, &aq.VideoURL,
		); err != nil {
			return nil, err
		}
		if aq.QuestionType == model.BankItemTheory {
			aq.Options = nil
		}
		questions = append(questions, aq)
	}
	return questions, rows.Err()
}

// AttemptScoreBasis sums the maximum achievable scores of an attempt's
// item set: total objective points and total theory marks, plus the
// theory item count which decides the post-submit state.
func (r *ExamItemRepository) AttemptScoreBasis(ctx context.Context, q Querier, attemptID uuid.UUID) (objectivePoints, theoryMarks float64, theoryCount int, err error) {
	err = q.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(b.points) FILTER (WHERE b.kind = $2), 0),
			COALESCE(SUM(b.max_marks) FILTER (WHERE b.kind = $3), 0),
			COUNT(*) FILTER (WHERE b.kind = $3)
		 FROM exam_items ei
		 JOIN bank_items b ON ei.question_id = b.id
		 WHERE ei.attempt_id = $1`,
		attemptID, model.BankItemObjective, model.BankItemTheory,
	).Scan(&objectivePoints, &theoryMarks, &theoryCount)
	return objectivePoints, theoryMarks, theoryCount, err
}
