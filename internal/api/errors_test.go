package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/lexis/internal/api/shared"
	"github.com/phrazzld/lexis/internal/service/review"
	"github.com/phrazzld/lexis/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid outcome", review.ErrInvalidOutcome, http.StatusBadRequest},
		{"invalid settings", review.NewServiceError("update_settings", "invalid", review.ErrInvalidSettings), http.StatusBadRequest},
		{"bad request", fmt.Errorf("%w: limit", ErrBadRequest), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"word not found", review.ErrWordNotFound, http.StatusNotFound},
		{"store not found", store.ErrSettingsNotFound, http.StatusNotFound},
		{"not approved", review.ErrWordNotApproved, http.StatusUnprocessableEntity},
		{"concurrent", review.ErrConcurrentUpdate, http.StatusConflict},
		{"raw conflict", store.ErrConflict, http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Word not found", GetSafeErrorMessage(review.ErrWordNotFound))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(fmt.Errorf("pq: password=abc")))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&UpdateSettingsRequest{DailyNewWords: 0})
	assert.Equal(t, "Invalid daily_new_words: must be at least 1", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(fmt.Errorf("not a validator error")))
}
