package model

import (
	"time"

	"github.com/google/uuid"
)

// BankItemKind distinguishes auto-gradable from manually graded questions.
type BankItemKind string

const (
	BankItemObjective BankItemKind = "objective"
	BankItemTheory    BankItemKind = "theory"
)

// BankItemStatus enumerates the approval lifecycle of a bank item.
// Only approved items are eligible for random selection.
type BankItemStatus string

const (
	BankItemDraft    BankItemStatus = "draft"
	BankItemApproved BankItemStatus = "approved"
	BankItemArchived BankItemStatus = "archived"
)

// QuestionOption is one choice of an objective question. The ID is stable
// across edits so stored answers stay comparable.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BankItem is a reusable question definition scoped to a course.
// Exactly one payload group is populated, matching Kind: objective items
// carry Options/CorrectOption/Points, theory items carry MaxMarks/Rubric.
type BankItem struct {
	ID           uuid.UUID        `json:"id"`
	CourseID     uuid.UUID        `json:"course_id"`
	CreatorID    int              `json:"creator_id"`
	Kind         BankItemKind     `json:"kind"`
	Difficulty   string           `json:"difficulty"`
	Topic        string           `json:"topic"`
	Tags         []string         `json:"tags"`
	Status       BankItemStatus   `json:"status"`
	SourceRef    *string          `json:"source_ref,omitempty"`
	QuestionText string           `json:"question_text"`
	Options      []QuestionOption `json:"options,omitempty"`
	CorrectOpt   *string          `json:"correct_option,omitempty"`
	Points       float64          `json:"points"`
	MaxMarks     float64          `json:"max_marks"`
	Rubric       *string          `json:"rubric,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	VideoURL     *string          `json:"video_url,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// HasOption reports whether the given option ID is a member of the
// item's option set.
func (b *BankItem) HasOption(optionID string) bool {
	for _, o := range b.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// CreateBankItemRequest is the payload for creating a bank item.
type CreateBankItemRequest struct {
	CourseID     uuid.UUID        `json:"course_id" binding:"required"`
	Kind         string           `json:"kind" binding:"required,oneof=objective theory"`
	Difficulty   string           `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Topic        string           `json:"topic" binding:"omitempty,max=120"`
	Tags         []string         `json:"tags" binding:"omitempty,dive,max=60"`
	Status       string           `json:"status" binding:"omitempty,oneof=draft approved archived"`
	SourceRef    *string          `json:"source_ref" binding:"omitempty,max=255"`
	QuestionText string           `json:"question_text" binding:"required,min=1,max=4000"`
	Options      []QuestionOption `json:"options" binding:"omitempty,dive"`
	CorrectOpt   *string          `json:"correct_option" binding:"omitempty,max=10"`
	Points       float64          `json:"points" binding:"omitempty,gt=0"`
	MaxMarks     float64          `json:"max_marks" binding:"omitempty,gt=0"`
	Rubric       *string          `json:"rubric" binding:"omitempty,max=4000"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,url"`
	VideoURL     *string          `json:"video_url" binding:"omitempty,url"`
}

// UpdateBankItemRequest is a partial patch; only present fields change.
type UpdateBankItemRequest struct {
	Difficulty   *string           `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Topic        *string           `json:"topic" binding:"omitempty,max=120"`
	Tags         *[]string         `json:"tags" binding:"omitempty,dive,max=60"`
	Status       *string           `json:"status" binding:"omitempty,oneof=draft approved archived"`
	QuestionText *string           `json:"question_text" binding:"omitempty,min=1,max=4000"`
	Options      *[]QuestionOption `json:"options" binding:"omitempty,dive"`
	CorrectOpt   *string           `json:"correct_option" binding:"omitempty,max=10"`
	Points       *float64          `json:"points" binding:"omitempty,gt=0"`
	MaxMarks     *float64          `json:"max_marks" binding:"omitempty,gt=0"`
	Rubric       *string           `json:"rubric" binding:"omitempty,max=4000"`
	ImageURL     *string           `json:"image_url" binding:"omitempty,url"`
	VideoURL     *string           `json:"video_url" binding:"omitempty,url"`
}

// BankItemFilter narrows bank item listings.
type BankItemFilter struct {
	CourseID   uuid.UUID
	Kind       *BankItemKind
	Status     *BankItemStatus
	Difficulty *string
	Topic      *string
}
