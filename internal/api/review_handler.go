package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lexis/internal/api/shared"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/domain/srs"
	"github.com/phrazzld/lexis/internal/platform/logger"
	"github.com/phrazzld/lexis/internal/redact"
	"github.com/phrazzld/lexis/internal/service/review"
)

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	reviews   review.Service
	scheduler srs.Service
	logger    *slog.Logger
}

// NewReviewHandler creates a ReviewHandler. A nil scheduler uses the
// default stage table.
func NewReviewHandler(reviews review.Service, scheduler srs.Service, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("review service cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	if scheduler == nil {
		scheduler = srs.NewDefaultService()
	}

	return &ReviewHandler{
		reviews:   reviews,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "review_handler")),
	}
}

// Routes mounts the handler on r.
func (h *ReviewHandler) Routes(r chi.Router) {
	r.Get("/intervals", h.GetIntervals)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/words/{wordID}/attempts", h.RecordAttempt)
		r.Get("/words/{wordID}/state", h.GetReviewState)
		r.Get("/reviews/due", h.GetDueReviews)
		r.Get("/session", h.GetSession)
		r.Get("/progress", h.GetProgress)
		r.Get("/progress/history", h.GetHistory)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
	})
}

// GetIntervals handles GET /intervals.
func (h *ReviewHandler) GetIntervals(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, intervalsToResponse(h.scheduler.Intervals()))
}

// RecordAttempt handles POST /users/{userID}/words/{wordID}/attempts.
func (h *ReviewHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := pathUserAndWordID(w, r, log)
	if !ok {
		return
	}

	var req RecordAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	outcome, err := domain.ParseOutcome(req.Outcome)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.reviews.RecordAttempt(r.Context(), userID, wordID, outcome)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record attempt")
		return
	}

	log.Debug("attempt recorded",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("outcome", string(outcome)),
		slog.Int("new_count", res.State.RepetitionCount))
	shared.RespondWithJSON(w, r, http.StatusCreated, attemptToResponse(res))
}

// GetReviewState handles GET /users/{userID}/words/{wordID}/state.
func (h *ReviewHandler) GetReviewState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := pathUserAndWordID(w, r, log)
	if !ok {
		return
	}

	state, err := h.reviews.ReviewState(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review state")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// GetDueReviews handles GET /users/{userID}/reviews/due.
func (h *ReviewHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := h.reviews.DueReviews(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dueToResponse(due))
}

// GetSession handles GET /users/{userID}/session.
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}

	session, err := h.reviews.BuildSession(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// GetProgress handles GET /users/{userID}/progress.
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}

	progress, err := h.reviews.Progress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// GetHistory handles GET /users/{userID}/progress/history.
func (h *ReviewHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}
	days, err := queryPositiveInt(r, "days")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	history, err := h.reviews.History(r.Context(), userID, days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, history)
}

// GetSettings handles GET /users/{userID}/settings.
func (h *ReviewHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}

	settings, err := h.reviews.Settings(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SettingsResponse{DailyNewWords: settings.DailyNewWords})
}

// UpdateSettings handles PUT /users/{userID}/settings.
func (h *ReviewHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUserID(w, r, log)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	settings, err := h.reviews.UpdateSettings(r.Context(), userID, req.DailyNewWords)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}

	log.Info("settings updated",
		slog.String("user_id", userID.String()),
		slog.Int("daily_new_words", settings.DailyNewWords))
	shared.RespondWithJSON(w, r, http.StatusOK, SettingsResponse{DailyNewWords: settings.DailyNewWords})
}
