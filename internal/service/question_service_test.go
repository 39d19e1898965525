package service

import (
	"testing"

	"github.com/quizroom/quizroom-backend/internal/model"
)

func TestValidateChoiceSetMCQ(t *testing.T) {
	cases := []struct {
		name    string
		choices []model.ChoiceInput
		wantErr string
	}{
		{
			name: "valid two choices one correct",
			choices: []model.ChoiceInput{
				{Text: "A", IsCorrect: true},
				{Text: "B"},
			},
		},
		{
			name: "valid many choices",
			choices: []model.ChoiceInput{
				{Text: "A"},
				{Text: "B", IsCorrect: true},
				{Text: "C"},
				{Text: "D"},
			},
		},
		{
			name:    "no choices",
			choices: nil,
			wantErr: "at least 2 choices",
		},
		{
			name: "single choice",
			choices: []model.ChoiceInput{
				{Text: "A", IsCorrect: true},
			},
			wantErr: "at least 2 choices",
		},
		{
			name: "blank choices do not count",
			choices: []model.ChoiceInput{
				{Text: "A", IsCorrect: true},
				{Text: "   "},
				{Text: ""},
			},
			wantErr: "at least 2 choices",
		},
		{
			name: "deleted choices do not count",
			choices: []model.ChoiceInput{
				{Text: "A", IsCorrect: true},
				{ID: 7, Text: "B", Delete: true},
			},
			wantErr: "at least 2 choices",
		},
		{
			name: "no correct choice",
			choices: []model.ChoiceInput{
				{Text: "A"},
				{Text: "B"},
			},
			wantErr: "exactly one choice must be marked correct",
		},
		{
			name: "two correct choices",
			choices: []model.ChoiceInput{
				{Text: "A", IsCorrect: true},
				{Text: "B", IsCorrect: true},
			},
			wantErr: "exactly one choice must be marked correct",
		},
		{
			name: "deleting the correct choice drops it from the count",
			choices: []model.ChoiceInput{
				{ID: 1, Text: "A", IsCorrect: true, Delete: true},
				{Text: "B"},
				{Text: "C"},
			},
			wantErr: "exactly one choice must be marked correct",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateChoiceSet(model.QTypeMCQ, tc.choices)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tc.wantErr)
			}
			if err.Error() != tc.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateChoiceSetShort(t *testing.T) {
	// Short questions carry no choices and always pass, whatever the
	// submitted choice list looks like.
	if err := ValidateChoiceSet(model.QTypeShort, nil); err != nil {
		t.Fatalf("short with nil choices: %v", err)
	}
	if err := ValidateChoiceSet(model.QTypeShort, []model.ChoiceInput{{Text: "A"}}); err != nil {
		t.Fatalf("short with leftover choices: %v", err)
	}
}

func TestNormalizeChoices(t *testing.T) {
	in := []model.ChoiceInput{
		{Text: " A ", IsCorrect: true},
		{Text: "B"},
		{Text: "   ", IsCorrect: true}, // blank entries never reach storage
		{ID: 5, Text: ""},
		{ID: 6, Text: "C", Delete: true},
	}
	out := normalizeChoices(in)

	if len(out) != 4 {
		t.Fatalf("normalized = %d entries, want 4: %+v", len(out), out)
	}
	if out[0].Text != "A" || !out[0].IsCorrect {
		t.Errorf("kept text should be trimmed: %+v", out[0])
	}
	if out[2].ID != 5 || !out[2].Delete {
		t.Errorf("blanked existing choice should turn into a deletion: %+v", out[2])
	}
	if out[3].ID != 6 || !out[3].Delete {
		t.Errorf("deletion input should pass through: %+v", out[3])
	}

	// Exactly one surviving choice is correct, matching what the
	// validated set counted.
	correct := 0
	for _, c := range out {
		if !c.Delete && c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("surviving correct choices = %d, want 1", correct)
	}
}

func TestValidationErrorType(t *testing.T) {
	var ve *ValidationError
	if !asValidationError(ErrTooFewChoices, &ve) {
		t.Fatal("ErrTooFewChoices should be a *ValidationError")
	}
	if !asValidationError(ErrNotExactlyOneChoice, &ve) {
		t.Fatal("ErrNotExactlyOneChoice should be a *ValidationError")
	}
}

func asValidationError(err error, target **ValidationError) bool {
	v, ok := err.(*ValidationError)
	if ok {
		*target = v
	}
	return ok
}
