package model

import (
	"github.com/google/uuid"
)

// ExamItem binds a bank question to an exam. A nil AttemptID marks a
// template item (manual mode, shared across students); a set AttemptID
// marks a materialized item of one student's attempt.
type ExamItem struct {
	ID         uuid.UUID  `json:"id"`
	ExamID     uuid.UUID  `json:"exam_id"`
	AttemptID  *uuid.UUID `json:"attempt_id,omitempty"`
	QuestionID uuid.UUID  `json:"question_id"`
	OrderNum   int        `json:"order"`
}

// AttemptQuestion is the student-facing view of one attempt item,
// joined with its bank question. Correct options are never included.
type AttemptQuestion struct {
	ExamItemID   uuid.UUID        `json:"exam_item_id"`
	OrderNum     int              `json:"order"`
	QuestionType BankItemKind     `json:"question_type"`
	QuestionText string           `json:"question_text"`
	Options      []QuestionOption `json:"options,omitempty"`
	Points       float64          `json:"points,omitempty"`
	MaxMarks     float64          `json:"max_marks,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	VideoURL     *string          `json:"video_url,omitempty"`
}
