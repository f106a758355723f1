package model

import "testing"

func TestBankItemHasOption(t *testing.T) {
	item := &BankItem{
		Options: []QuestionOption{
			{ID: "a", Text: "first"},
			{ID: "b", Text: "second"},
			{ID: "c", Text: "third"},
		},
	}

	tests := []struct {
		name     string
		optionID string
		want     bool
	}{
		{name: "member", optionID: "b", want: true},
		{name: "not a member", optionID: "z", want: false},
		{name: "empty id", optionID: "", want: false},
		{name: "matches text not id", optionID: "first", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := item.HasOption(tc.optionID); got != tc.want {
				t.Errorf("HasOption(%q) = %v, want %v", tc.optionID, got, tc.want)
			}
		})
	}
}

func TestBankItemHasOptionEmptySet(t *testing.T) {
	item := &BankItem{}
	if item.HasOption("a") {
		t.Error("HasOption on empty option set should be false")
	}
}
