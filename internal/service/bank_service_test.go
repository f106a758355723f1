package service

import (
	"errors"
	"testing"

	"github.com/courseloop/assessment-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func objectiveItem(correct string) *model.BankItem {
	return &model.BankItem{
		Kind: model.BankItemObjective,
		Options: []model.QuestionOption{
			{ID: "a", Text: "first"},
			{ID: "b", Text: "second"},
		},
		CorrectOpt: strPtr(correct),
		Points:     2,
	}
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		item    *model.BankItem
		wantErr error
	}{
		{
			name: "valid objective",
			item: objectiveItem("a"),
		},
		{
			name:    "correct option outside option set",
			item:    objectiveItem("z"),
			wantErr: ErrCorrectOptionUnset,
		},
		{
			name: "objective without options",
			item: &model.BankItem{
				Kind:       model.BankItemObjective,
				CorrectOpt: strPtr("a"),
				Points:     1,
			},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name: "objective without correct option",
			item: &model.BankItem{
				Kind:    model.BankItemObjective,
				Options: []model.QuestionOption{{ID: "a"}},
				Points:  1,
			},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name: "objective carrying theory payload",
			item: func() *model.BankItem {
				it := objectiveItem("a")
				it.MaxMarks = 10
				return it
			}(),
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name: "valid theory",
			item: &model.BankItem{
				Kind:     model.BankItemTheory,
				MaxMarks: 10,
				Rubric:   strPtr("full marks for a complete answer"),
			},
		},
		{
			name: "theory without max marks",
			item: &model.BankItem{
				Kind: model.BankItemTheory,
			},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name: "theory carrying options",
			item: &model.BankItem{
				Kind:     model.BankItemTheory,
				MaxMarks: 10,
				Options:  []model.QuestionOption{{ID: "a"}},
			},
			wantErr: ErrPayloadKindMismatch,
		},
		{
			name:    "unknown kind",
			item:    &model.BankItem{Kind: "essay"},
			wantErr: ErrPayloadKindMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePayload(tc.item)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidatePayloadDefaultsObjectivePoints(t *testing.T) {
	item := objectiveItem("a")
	item.Points = 0

	if err := validatePayload(item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Points != 1 {
		t.Errorf("points = %v, want default 1", item.Points)
	}
}

func TestApplyBankItemPatch(t *testing.T) {
	item := objectiveItem("a")
	item.Difficulty = "easy"
	item.Topic = "networks"
	item.Status = model.BankItemDraft
	item.QuestionText = "original"

	status := string(model.BankItemApproved)
	patch := &model.UpdateBankItemRequest{
		Difficulty:   strPtr("hard"),
		Status:       &status,
		QuestionText: strPtr("revised"),
		CorrectOpt:   strPtr("b"),
	}
	applyBankItemPatch(item, patch)

	if item.Difficulty != "hard" {
		t.Errorf("difficulty = %q, want %q", item.Difficulty, "hard")
	}
	if item.Topic != "networks" {
		t.Errorf("topic changed without a patch field: %q", item.Topic)
	}
	if item.Status != model.BankItemApproved {
		t.Errorf("status = %q, want approved", item.Status)
	}
	if item.QuestionText != "revised" {
		t.Errorf("question text = %q, want %q", item.QuestionText, "revised")
	}
	if item.CorrectOpt == nil || *item.CorrectOpt != "b" {
		t.Errorf("correct option = %v, want b", item.CorrectOpt)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{name: "defaults", page: 0, perPage: 0, wantPage: 1, wantPerPage: 10},
		{name: "negative page", page: -3, perPage: 20, wantPage: 1, wantPerPage: 20},
		{name: "per page capped", page: 2, perPage: 500, wantPage: 2, wantPerPage: 100},
		{name: "valid unchanged", page: 3, perPage: 25, wantPage: 3, wantPerPage: 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, perPage := normalizePage(tc.page, tc.perPage)
			if page != tc.wantPage || perPage != tc.wantPerPage {
				t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
					tc.page, tc.perPage, page, perPage, tc.wantPage, tc.wantPerPage)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(2, 10, 25)
	if p.Page != 2 || p.PerPage != 10 || p.TotalItems != 25 || p.TotalPages != 3 {
		t.Errorf("pagination = %+v, want page=2 per_page=10 total_items=25 total_pages=3", p)
	}

	empty := buildPagination(1, 10, 0)
	if empty.TotalPages != 0 {
		t.Errorf("total pages for empty set = %d, want 0", empty.TotalPages)
	}
}
