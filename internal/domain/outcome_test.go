package domain

import (
	"errors"
	"testing"
)

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Outcome
		wantErr  bool
	}{
		{input: "correct", expected: OutcomeCorrect},
		{input: "  Incorrect ", expected: OutcomeIncorrect},
		{input: "SKIPPED", expected: OutcomeSkipped},
		{input: "good", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOutcome(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidOutcome) {
					t.Fatalf("Expected ErrInvalidOutcome, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected outcome %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestOutcomeValid(t *testing.T) {
	t.Parallel()

	if Outcome("again").Valid() {
		t.Error("Expected outcome 'again' to be invalid")
	}
	for _, o := range []Outcome{OutcomeCorrect, OutcomeIncorrect, OutcomeSkipped} {
		if !o.Valid() {
			t.Errorf("Expected outcome %q to be valid", o)
		}
	}
}
