package notify

import (
	"context"

	"triarb/internal/model"
)

// Notifier receives opportunity and attempt events from the engine.
type Notifier interface {
	OpportunityFound(ctx context.Context, opp model.Opportunity)
	AttemptFinished(ctx context.Context, res model.AttemptResult)
}

// Multi fans out events to several notifiers.
type Multi []Notifier

func (m Multi) OpportunityFound(ctx context.Context, opp model.Opportunity) {
	for _, n := range m {
		n.OpportunityFound(ctx, opp)
	}
}

func (m Multi) AttemptFinished(ctx context.Context, res model.AttemptResult) {
	for _, n := range m {
		n.AttemptFinished(ctx, res)
	}
}
