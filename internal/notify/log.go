package notify

import (
	"context"
	"log/slog"

	"triarb/internal/model"
)

// Log writes events to the structured log.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) OpportunityFound(_ context.Context, opp model.Opportunity) {
	l.logger.Info("opportunity found",
		"symbol", opp.Symbol, "direction", opp.Direction,
		"returnPct", opp.ReturnPct, "maxLiquidity", opp.MaxLiquidity)
}

func (l *Log) AttemptFinished(_ context.Context, res model.AttemptResult) {
	l.logger.Info("attempt result",
		"symbol", res.Symbol, "direction", res.Direction, "outcome", res.Outcome,
		"deployedFiat", res.DeployedFiat, "failedLeg", res.FailedLeg)
}
