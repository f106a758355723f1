package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates the attempt state machine. The only legal
// transitions are in_progress → submitted → graded; submitted is skipped
// when an attempt has no theory items.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
)

// ExamAttempt is one student's one try at an exam.
type ExamAttempt struct {
	ID          uuid.UUID     `json:"id"`
	ExamID      uuid.UUID     `json:"exam_id"`
	StudentID   int           `json:"student_id"`
	Status      AttemptStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	GradedAt    *time.Time    `json:"graded_at,omitempty"`
	GradedBy    *int          `json:"graded_by,omitempty"`
	TotalScore  float64       `json:"total_score"`
	MaxScore    float64       `json:"max_score"`
}

// StartAttemptResult is returned by the attempt-start operation. Resumed
// is true when an existing in_progress attempt was returned unchanged.
type StartAttemptResult struct {
	AttemptID         uuid.UUID         `json:"attempt_id"`
	StartedAt         time.Time         `json:"started_at"`
	DurationMinutes   int               `json:"duration_minutes"`
	RemainingAttempts int               `json:"remaining_attempts"`
	Resumed           bool              `json:"resumed"`
	Questions         []AttemptQuestion `json:"questions"`
}

// SubmitAttemptResult is returned by the attempt-submit operation.
type SubmitAttemptResult struct {
	AttemptID  uuid.UUID     `json:"attempt_id"`
	TotalScore float64       `json:"total_score"`
	MaxScore   float64       `json:"max_score"`
	Status     AttemptStatus `json:"status"`
}

// AttemptReview is the resume/review view of one attempt: its questions
// plus whatever answers have been saved so far.
type AttemptReview struct {
	Attempt   ExamAttempt       `json:"attempt"`
	Questions []AttemptQuestion `json:"questions"`
	Objective []AnswerObjective `json:"objective_answers"`
	Theory    []AnswerTheory    `json:"theory_answers"`
}
