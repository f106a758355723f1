package model

import (
	"testing"
	"time"
)

func TestExamWithinWindow(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name    string
		startAt *time.Time
		endAt   *time.Time
		want    bool
	}{
		{name: "no bounds", want: true},
		{name: "inside both bounds", startAt: &before, endAt: &after, want: true},
		{name: "before start", startAt: &after, want: false},
		{name: "after end", endAt: &before, want: false},
		{name: "open start inside end", endAt: &after, want: true},
		{name: "open end past start", startAt: &before, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := &Exam{StartAt: tc.startAt, EndAt: tc.endAt}
			if got := e.WithinWindow(now); got != tc.want {
				t.Errorf("WithinWindow = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExamWindowBoundsInclusive(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	e := &Exam{StartAt: &now, EndAt: &now}
	if !e.WithinWindow(now) {
		t.Error("window bounds should be inclusive")
	}
}
