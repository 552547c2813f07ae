package srs

import (
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/lexis/internal/domain"
)

// DueSet returns the states due at now, oldest due first.
//
// States sharing a next review time are ordered by word ID so that session
// builders see a stable order across calls. Never-attempted states are not
// due; see IsNew. The input slice is not modified.
func DueSet(states []*domain.ReviewState, now time.Time) []*domain.ReviewState {
	due := make([]*domain.ReviewState, 0, len(states))
	for _, s := range states {
		if s.IsDue(now) {
			due = append(due, s)
		}
	}

	slices.SortStableFunc(due, func(a, b *domain.ReviewState) int {
		if c := a.NextReviewAt.Compare(*b.NextReviewAt); c != 0 {
			return c
		}
		return strings.Compare(a.WordID.String(), b.WordID.String())
	})

	return due
}

// IsNew reports whether a word has never been attempted by the user owning
// state. A nil state means no state exists at all.
func IsNew(state *domain.ReviewState) bool {
	return !state.Attempted()
}
