package domain

import (
	"fmt"
	"strings"
)

// Outcome is the result of a single review attempt.
type Outcome string

// Possible review outcome values
const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkipped   Outcome = "skipped"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeIncorrect, OutcomeSkipped:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string {
	return string(o)
}

// ParseOutcome converts user input into an Outcome. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
	return o, nil
}
