package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewWord(t *testing.T) {
	word, err := NewWord("  apple ", "elma", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if word.ID == uuid.Nil {
		t.Error("Expected non-nil word ID")
	}
	if word.SourceText != "apple" {
		t.Errorf("Expected trimmed source text, got %q", word.SourceText)
	}
	if word.Approved {
		t.Error("Expected new word to be unapproved")
	}
	if word.CreatedAt.IsZero() || word.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	word.Approve()
	if !word.Approved {
		t.Error("Expected word to be approved after Approve")
	}
}

func TestWordValidate(t *testing.T) {
	testCases := []struct {
		name     string
		source   string
		target   string
		level    int
		expected error
	}{
		{"empty source", " ", "elma", 1, ErrWordSourceTextEmpty},
		{"empty target", "apple", "", 1, ErrWordTargetTextEmpty},
		{"difficulty too low", "apple", "elma", 0, ErrWordDifficultyInvalid},
		{"difficulty too high", "apple", "elma", 6, ErrWordDifficultyInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWord(tc.source, tc.target, tc.level)
			if err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}

	w := &Word{SourceText: "apple", TargetText: "elma", DifficultyLevel: 3}
	if err := w.Validate(); err != ErrWordIDEmpty {
		t.Errorf("Expected ErrWordIDEmpty, got %v", err)
	}
}
