package service

import (
	"testing"

	"github.com/courseloop/assessment-backend/internal/model"
)

func TestGradeObjective(t *testing.T) {
	question := &model.BankItem{
		Kind:       model.BankItemObjective,
		Options:    []model.QuestionOption{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		CorrectOpt: strPtr("b"),
		Points:     2.5,
	}

	tests := []struct {
		name        string
		selected    *string
		wantCorrect bool
		wantScore   float64
	}{
		{name: "correct selection", selected: strPtr("b"), wantCorrect: true, wantScore: 2.5},
		{name: "wrong selection", selected: strPtr("a"), wantCorrect: false, wantScore: 0},
		{name: "nil selection", selected: nil, wantCorrect: false, wantScore: 0},
		{name: "empty selection", selected: strPtr(""), wantCorrect: false, wantScore: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, score := gradeObjective(tc.selected, question)
			if correct != tc.wantCorrect || score != tc.wantScore {
				t.Errorf("gradeObjective = (%v, %v), want (%v, %v)",
					correct, score, tc.wantCorrect, tc.wantScore)
			}
		})
	}
}

func TestGradeObjectiveNoCorrectOption(t *testing.T) {
	question := &model.BankItem{
		Kind:    model.BankItemObjective,
		Options: []model.QuestionOption{{ID: "a"}},
		Points:  1,
	}
	correct, score := gradeObjective(strPtr("a"), question)
	if correct || score != 0 {
		t.Errorf("grading without a correct option = (%v, %v), want (false, 0)", correct, score)
	}
}
