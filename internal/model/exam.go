package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamVisibility enumerates the publication states of an exam.
type ExamVisibility string

const (
	ExamDraft     ExamVisibility = "draft"
	ExamPublished ExamVisibility = "published"
	ExamArchived  ExamVisibility = "archived"
)

// ExamType constrains which question kinds an exam carries.
type ExamType string

const (
	ExamTypeMixed         ExamType = "mixed"
	ExamTypeObjectiveOnly ExamType = "objective_only"
	ExamTypeTheoryOnly    ExamType = "theory_only"
)

// SelectionMode determines how a student's question set is built at
// attempt start.
type SelectionMode string

const (
	SelectionRandom SelectionMode = "random"
	SelectionManual SelectionMode = "manual"
)

// DefaultMaxAttempts applies when an exam does not set its own quota.
const DefaultMaxAttempts = 3

// Exam is one assessment configuration over a course and academic period.
type Exam struct {
	ID              uuid.UUID      `json:"id"`
	CourseID        uuid.UUID      `json:"course_id"`
	AcademicYear    int            `json:"academic_year"`
	Semester        int            `json:"semester"`
	Title           string         `json:"title"`
	Instructions    string         `json:"instructions"`
	StartAt         *time.Time     `json:"start_at,omitempty"`
	EndAt           *time.Time     `json:"end_at,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
	Visibility      ExamVisibility `json:"visibility"`
	Randomize       bool           `json:"randomize"`
	ExamType        ExamType       `json:"exam_type"`
	SelectionMode   SelectionMode  `json:"selection_mode"`
	ObjectiveCount  int            `json:"objective_count"`
	TheoryCount     int            `json:"theory_count"`
	MaxAttempts     int            `json:"max_attempts"`
	CreatedBy       int            `json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// WithinWindow reports whether now falls inside the exam's availability
// window. Unset bounds are open-ended.
func (e *Exam) WithinWindow(now time.Time) bool {
	if e.StartAt != nil && now.Before(*e.StartAt) {
		return false
	}
	if e.EndAt != nil && now.After(*e.EndAt) {
		return false
	}
	return true
}

// CreateExamRequest is the payload for creating a new exam.
// ManualQuestionIDs seeds template items in submission order when
// selection_mode is manual.
type CreateExamRequest struct {
	CourseID          uuid.UUID   `json:"course_id" binding:"required"`
	AcademicYear      int         `json:"academic_year" binding:"required,min=2000,max=2100"`
	Semester          int         `json:"semester" binding:"required,min=1,max=3"`
	Title             string      `json:"title" binding:"required,min=3,max=255"`
	Instructions      string      `json:"instructions" binding:"omitempty,max=8000"`
	StartAt           *time.Time  `json:"start_at" binding:"omitempty"`
	EndAt             *time.Time  `json:"end_at" binding:"omitempty,gtfield=StartAt"`
	DurationMinutes   int         `json:"duration_minutes" binding:"required,min=1,max=480"`
	Visibility        string      `json:"visibility" binding:"omitempty,oneof=draft published archived"`
	Randomize         bool        `json:"randomize"`
	ExamType          string      `json:"exam_type" binding:"omitempty,oneof=mixed objective_only theory_only"`
	SelectionMode     string      `json:"selection_mode" binding:"required,oneof=random manual"`
	ObjectiveCount    int         `json:"objective_count" binding:"omitempty,min=0,max=200"`
	TheoryCount       int         `json:"theory_count" binding:"omitempty,min=0,max=50"`
	MaxAttempts       int         `json:"max_attempts" binding:"omitempty,min=1,max=10"`
	ManualQuestionIDs []uuid.UUID `json:"manual_question_ids" binding:"omitempty"`
}

// UpdateExamRequest is a partial patch; only fields present in the
// request are changed. Existing attempts are never recomputed.
type UpdateExamRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Instructions    *string    `json:"instructions" binding:"omitempty,max=8000"`
	StartAt         *time.Time `json:"start_at" binding:"omitempty"`
	EndAt           *time.Time `json:"end_at" binding:"omitempty"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	Visibility      *string    `json:"visibility" binding:"omitempty,oneof=draft published archived"`
	Randomize       *bool      `json:"randomize" binding:"omitempty"`
	ObjectiveCount  *int       `json:"objective_count" binding:"omitempty,min=0,max=200"`
	TheoryCount     *int       `json:"theory_count" binding:"omitempty,min=0,max=50"`
	MaxAttempts     *int       `json:"max_attempts" binding:"omitempty,min=1,max=10"`
}

// ExamFilter narrows exam listings for a course.
type ExamFilter struct {
	CourseID     uuid.UUID
	AcademicYear *int
	Semester     *int
	Visibility   *ExamVisibility
}

// ExamStatistics summarizes graded attempts of one exam.
type ExamStatistics struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
}
