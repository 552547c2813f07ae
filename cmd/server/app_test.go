package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lexis/internal/api"
	apiMiddleware "github.com/phrazzld/lexis/internal/api/middleware"
	"github.com/phrazzld/lexis/internal/config"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/mocks"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{URL: "postgres://lexis@localhost:5432/lexis"},
		Review: config.ReviewConfig{
			MaxDueWords:           20,
			DefaultDailyNewWords:  10,
			ConflictRetryAttempts: 3,
		},
	}
}

func newTestApp(t *testing.T) (*application, *mocks.MemoryDB, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	db := mocks.NewMemoryDB()
	app := newApplicationWithTransactor(testConfig(), log, nil, mocks.NewMockTransactor(db, nil))
	return app, db, buf
}

func TestRouterHealth(t *testing.T) {
	app, _, _ := newTestApp(t)

	w := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(apiMiddleware.TraceHeader))
}

func TestRouterReviewFlow(t *testing.T) {
	app, db, buf := newTestApp(t)
	router := app.setupRouter()
	ctx := context.Background()

	word, err := domain.NewWord("libro", "book", 1)
	require.NoError(t, err)
	word.Approve()
	require.NoError(t, db.NewStores().Words.Create(ctx, word))

	userID := "0d4f1c6e-2f57-4a53-8c65-8d1b5a9f0e11"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/users/%s/session", userID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var session api.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.Len(t, session.New, 1)
	assert.Equal(t, word.ID, session.New[0].ID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/users/%s/words/%s/attempts", userID, word.ID),
		bytes.NewBufferString(`{"outcome":"correct"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	var attempt api.AttemptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &attempt))
	assert.Equal(t, 1, attempt.State.RepetitionCount)
	assert.Equal(t, "1 day", attempt.IntervalLabel)

	assert.Len(t, db.Attempts(), 1)
	logger.AssertLogContains(t, buf, "attempt recorded")
}

func TestRouterUnknownWord(t *testing.T) {
	app, _, _ := newTestApp(t)

	w := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost,
		"/api/users/0d4f1c6e-2f57-4a53-8c65-8d1b5a9f0e11/words/5a0b7c8d-1e2f-4a3b-9c4d-5e6f7a8b9c0d/attempts",
		bytes.NewBufferString(`{"outcome":"skipped"}`)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApplicationRequiresDB(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	_, err := newApplication(testConfig(), log, nil)
	assert.Error(t, err)
}

func TestRunRejectsBadInput(t *testing.T) {
	err := run([]string{"-no-such-flag"})
	assert.Error(t, err)

	t.Setenv("LEXIS_DATABASE_URL", "")
	err = run([]string{"-config", "testdata/does-not-exist.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
