package service

import (
	"testing"
	"time"

	"github.com/courseloop/assessment-backend/internal/model"
)

func TestRoundScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "no fraction", in: 80, want: 80},
		{name: "two decimals kept", in: 66.67, want: 66.67},
		{name: "third decimal rounds up", in: 66.666, want: 66.67},
		{name: "third decimal rounds down", in: 66.664, want: 66.66},
		{name: "zero", in: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := roundScore(tc.in); got != tc.want {
				t.Errorf("roundScore(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestApplyExamPatch(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	exam := &model.Exam{
		Title:           "Midterm",
		Instructions:    "Read carefully",
		DurationMinutes: 60,
		Visibility:      model.ExamDraft,
		Randomize:       false,
		ObjectiveCount:  10,
		TheoryCount:     2,
		MaxAttempts:     3,
	}

	title := "Midterm (revised)"
	duration := 90
	visibility := string(model.ExamPublished)
	randomize := true
	applyExamPatch(exam, &model.UpdateExamRequest{
		Title:           &title,
		StartAt:         &start,
		DurationMinutes: &duration,
		Visibility:      &visibility,
		Randomize:       &randomize,
	})

	if exam.Title != title {
		t.Errorf("title = %q, want %q", exam.Title, title)
	}
	if exam.Instructions != "Read carefully" {
		t.Errorf("instructions changed without a patch field: %q", exam.Instructions)
	}
	if exam.StartAt == nil || !exam.StartAt.Equal(start) {
		t.Errorf("start at = %v, want %v", exam.StartAt, start)
	}
	if exam.DurationMinutes != 90 {
		t.Errorf("duration = %d, want 90", exam.DurationMinutes)
	}
	if exam.Visibility != model.ExamPublished {
		t.Errorf("visibility = %q, want published", exam.Visibility)
	}
	if !exam.Randomize {
		t.Error("randomize not applied")
	}
	if exam.ObjectiveCount != 10 || exam.TheoryCount != 2 || exam.MaxAttempts != 3 {
		t.Errorf("untouched counters changed: %+v", exam)
	}
}
