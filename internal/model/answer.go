package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerObjective is one student's answer to one objective attempt item.
// Exactly one row exists per (attempt, item); repeated saves overwrite.
// Score is derived from IsCorrect and the item's point value, never set
// independently.
type AnswerObjective struct {
	ID             uuid.UUID `json:"id"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	ExamItemID     uuid.UUID `json:"exam_item_id"`
	SelectedOption *string   `json:"selected_option,omitempty"`
	IsCorrect      bool      `json:"is_correct"`
	Score          float64   `json:"score"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// AnswerTheory is one student's answer to one theory attempt item.
// Score stays nil until an instructor grades it and is then bounded by
// the item's maximum marks.
type AnswerTheory struct {
	ID         uuid.UUID  `json:"id"`
	AttemptID  uuid.UUID  `json:"attempt_id"`
	ExamItemID uuid.UUID  `json:"exam_item_id"`
	AnswerText *string    `json:"answer_text,omitempty"`
	FileURL    *string    `json:"file_url,omitempty"`
	Score      *float64   `json:"score,omitempty"`
	Feedback   *string    `json:"feedback,omitempty"`
	GradedAt   *time.Time `json:"graded_at,omitempty"`
	GradedBy   *int       `json:"graded_by,omitempty"`
	AnsweredAt time.Time  `json:"answered_at"`
}

// TheoryAnswerForGrading joins a theory answer with its question for the
// instructor's grading view.
type TheoryAnswerForGrading struct {
	Answer       AnswerTheory `json:"answer"`
	QuestionText string       `json:"question_text"`
	MaxMarks     float64      `json:"max_marks"`
	Rubric       *string      `json:"rubric,omitempty"`
}

// SubmitAnswerRequest is the auto-save payload for one attempt item.
// Objective items use SelectedOption; theory items use AnswerText and/or
// FileURL.
type SubmitAnswerRequest struct {
	ExamItemID     uuid.UUID `json:"exam_item_id" binding:"required"`
	SelectedOption *string   `json:"selected_option" binding:"omitempty,max=10"`
	AnswerText     *string   `json:"answer_text" binding:"omitempty,max=20000"`
	FileURL        *string   `json:"file_url" binding:"omitempty,url"`
}

// SubmitAnswerResult reports the outcome of one auto-save.
type SubmitAnswerResult struct {
	QuestionType BankItemKind `json:"question_type"`
	IsCorrect    *bool        `json:"is_correct,omitempty"`
	Score        *float64     `json:"awarded_score,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// GradeAnswerRequest is the single-grade payload. Scores above the
// item's maximum marks are rejected.
type GradeAnswerRequest struct {
	Score    float64 `json:"awarded_score" binding:"min=0"`
	Feedback *string `json:"feedback" binding:"omitempty,max=4000"`
}

// BulkGradeEntry is one entry of a bulk-grade request. Scores are
// clamped into [0, max_marks] rather than rejected.
type BulkGradeEntry struct {
	AnswerID uuid.UUID `json:"answer_id" binding:"required"`
	Score    float64   `json:"awarded_score" binding:"min=0"`
	Feedback *string   `json:"feedback" binding:"omitempty,max=4000"`
}

// BulkGradeRequest grades multiple theory answers of one attempt in a
// single call. An empty entry list is allowed: it finalizes the attempt
// from whatever scores are already persisted, which is the only way to
// close out an attempt whose theory items were never answered.
type BulkGradeRequest struct {
	Entries []BulkGradeEntry `json:"entries" binding:"omitempty,dive"`
}
