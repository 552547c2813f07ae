package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/lexis/internal/platform/logger"
)

// LogHandler writes review events to a structured log. Mastery is logged at
// info level, individual attempts at debug level.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. If log is nil, slog.Default() is used.
func NewLogHandler(log *slog.Logger) *LogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LogHandler{logger: log.With(slog.String("component", "event_log"))}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *Event) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	switch event.Type {
	case TypeWordMastered:
		var p WordMasteredPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		log.Info("word mastered",
			slog.String("user_id", p.UserID.String()),
			slog.String("word_id", p.WordID.String()),
			slog.Time("mastered_at", p.MasteredAt))
	case TypeAttemptRecorded:
		var p AttemptRecordedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		log.Debug("attempt recorded",
			slog.String("user_id", p.UserID.String()),
			slog.String("word_id", p.WordID.String()),
			slog.String("outcome", p.Outcome),
			slog.Int("new_count", p.NewCount))
	default:
		log.Debug("ignoring event", slog.String("event_type", event.Type))
	}
	return nil
}
