package database

import (
	"context"

	"triarb/internal/model"
)

// Repository defines the standard interface for the journal database.
type Repository interface {
	Migrate(ctx context.Context) error
	LogOpportunity(ctx context.Context, opp model.Opportunity) error
	LogAttempt(ctx context.Context, res model.AttemptResult) error
}
