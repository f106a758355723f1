package repository

import (
	"context"
	"fmt"

	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankItemColumns = `id, course_id, creator_id, kind, difficulty, topic, tags, status,
	source_ref, question_text, options, correct_option, points, max_marks, rubric,
	image_url, video_url, created_at, updated_at`

// BankItemRepository handles question-bank data access.
type BankItemRepository struct {
	pool *pgxpool.Pool
}

// NewBankItemRepository creates a new BankItemRepository.
func NewBankItemRepository(pool *pgxpool.Pool) *BankItemRepository {
	return &BankItemRepository{pool: pool}
}

func scanBankItem(row interface{ Scan(...any) error }, b *model.BankItem) error {
	return row.Scan(
		&b.ID, &b.CourseID, &b.CreatorID, &b.Kind, &b.Difficulty, &b.Topic, &b.Tags,
		&b.Status, &b.SourceRef, &b.QuestionText, &b.Options, &b.CorrectOpt,
		&b.Points, &b.MaxMarks, &b.Rubric, &b.ImageURL, &b.VideoURL,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

// Create inserts a new bank item.
func (r *BankItemRepository) Create(ctx context.Context, b *model.BankItem) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO bank_items (course_id, creator_id, kind, difficulty, topic, tags, status,
			source_ref, question_text, options, correct_option, points, max_marks, rubric,
			image_url, video_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		b.CourseID, b.CreatorID, b.Kind, b.Difficulty, b.Topic, b.Tags, b.Status,
		b.SourceRef, b.QuestionText, b.Options, b.CorrectOpt, b.Points, b.MaxMarks,
		b.Rubric, b.ImageURL, b.VideoURL,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID retrieves a single bank item.
func (r *BankItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BankItem, error) {
	b := &model.BankItem{}
	err := scanBankItem(r.pool.QueryRow(ctx,
		`SELECT `+bankItemColumns+` FROM bank_items WHERE id = $1`, id,
	), b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetManyByIDs retrieves bank items by ID. Missing IDs are silently
// absent from the result; callers compare lengths when that matters.
func (r *BankItemRepository) GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]model.BankItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bankItemColumns+` FROM bank_items WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.BankItem
	for rows.Next() {
		var b model.BankItem
		if err := scanBankItem(rows, &b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// Update persists all mutable columns of a bank item.
func (r *BankItemRepository) Update(ctx context.Context, b *model.BankItem) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bank_items
		 SET difficulty = $1, topic = $2, tags = $3, status = $4, question_text = $5,
		     options = $6, correct_option = $7, points = $8, max_marks = $9, rubric = $10,
		     image_url = $11, video_url = $12, updated_at = NOW()
		 WHERE id = $13`,
		b.Difficulty, b.Topic, b.Tags, b.Status, b.QuestionText,
		b.Options, b.CorrectOpt, b.Points, b.MaxMarks, b.Rubric,
		b.ImageURL, b.VideoURL, b.ID,
	)
	return err
}

// Delete removes a bank item.
func (r *BankItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bank_items WHERE id = $1`, id)
	return err
}

// CountExamReferences reports how many exam items reference a bank item.
// Deleting a referenced item is refused at the service layer.
func (r *BankItemRepository) CountExamReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_items WHERE question_id = $1`, id,
	).Scan(&n)
	return n, err
}

// List retrieves bank items for a course with optional filters and pagination.
func (r *BankItemRepository) List(ctx context.Context, f model.BankItemFilter, limit, offset int) ([]model.BankItem, int64, error) {
	baseQuery := ` FROM bank_items WHERE course_id = $1`
	args := []any{f.CourseID}

	if f.Kind != nil {
		args = append(args, *f.Kind)
		baseQuery += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Difficulty != nil && *f.Difficulty != "" {
		args = append(args, *f.Difficulty)
		baseQuery += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	if f.Topic != nil && *f.Topic != "" {
		args = append(args, *f.Topic)
		baseQuery += fmt.Sprintf(" AND topic = $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + bankItemColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.BankItem
	for rows.Next() {
		var b model.BankItem
		if err := scanBankItem(rows, &b); err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

// ListApproved retrieves the approved selection pool for a course and kind.
func (r *BankItemRepository) ListApproved(ctx context.Context, q Querier, courseID uuid.UUID, kind model.BankItemKind) ([]model.BankItem, error) {
	rows, err := q.Query(ctx,
		`SELECT `+bankItemColumns+`
		 FROM bank_items
		 WHERE course_id = $1 AND kind = $2 AND status = $3`,
		courseID, kind, model.BankItemApproved,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.BankItem
	for rows.Next() {
		var b model.BankItem
		if err := scanBankItem(rows, &b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
