package notify

import (
	"context"
	"log/slog"

	"triarb/internal/database"
	"triarb/internal/model"
)

// Recorder journals events to the database. Journal failures are logged and
// absorbed; they must never unwind into the tick loop.
type Recorder struct {
	repo   database.Repository
	logger *slog.Logger
}

func NewRecorder(repo database.Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) OpportunityFound(ctx context.Context, opp model.Opportunity) {
	if err := r.repo.LogOpportunity(ctx, opp); err != nil {
		r.logger.Error("failed to journal opportunity", "error", err)
	}
}

func (r *Recorder) AttemptFinished(ctx context.Context, res model.AttemptResult) {
	if err := r.repo.LogAttempt(ctx, res); err != nil {
		r.logger.Error("failed to journal attempt", "error", err)
	}
}
