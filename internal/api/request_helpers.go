package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID parses the named chi path parameter as a non-nil UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrBadRequest, paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", ErrBadRequest, paramName)
	}
	return id, nil
}

// pathUserID extracts {userID}, writing a 400 response on failure.
func pathUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		log.Debug("invalid user ID", slog.String("value", chi.URLParam(r, "userID")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUserAndWordID extracts {userID} and {wordID}, writing a 400 response
// on failure.
func pathUserAndWordID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := pathUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	wordID, err := getPathUUID(r, "wordID")
	if err != nil {
		log.Debug("invalid word ID", slog.String("value", chi.URLParam(r, "wordID")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, wordID, true
}

// queryLimit parses the optional ?limit= parameter. Zero means unset.
func queryLimit(r *http.Request) (int, error) {
	return queryPositiveInt(r, "limit")
}

// queryPositiveInt parses an optional positive integer query parameter.
// Zero means unset.
func queryPositiveInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	return n, nil
}
