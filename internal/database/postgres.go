package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"triarb/internal/model"
)

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{Pool: pool}
}

// Migrate creates the journal tables if they do not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS opportunities (
		id SERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		symbol VARCHAR(20) NOT NULL,
		direction VARCHAR(10) NOT NULL,
		return_pct NUMERIC(20, 8) NOT NULL,
		max_liquidity NUMERIC(20, 8) NOT NULL
	);
	CREATE TABLE IF NOT EXISTS attempts (
		id SERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		symbol VARCHAR(20) NOT NULL,
		direction VARCHAR(10) NOT NULL,
		deployed_fiat NUMERIC(20, 8) NOT NULL,
		outcome VARCHAR(10) NOT NULL,
		failed_leg INT NOT NULL
	);`)
	return err
}

func (r *PostgresRepository) LogOpportunity(ctx context.Context, opp model.Opportunity) error {
	_, err := r.Pool.Exec(ctx, `
	INSERT INTO opportunities (timestamp, symbol, direction, return_pct, max_liquidity)
	VALUES ($1, $2, $3, $4, $5)`,
		opp.Timestamp, opp.Symbol, string(opp.Direction), opp.ReturnPct, opp.MaxLiquidity)
	return err
}

func (r *PostgresRepository) LogAttempt(ctx context.Context, res model.AttemptResult) error {
	_, err := r.Pool.Exec(ctx, `
	INSERT INTO attempts (timestamp, symbol, direction, deployed_fiat, outcome, failed_leg)
	VALUES ($1, $2, $3, $4, $5, $6)`,
		res.Timestamp, res.Symbol, string(res.Direction), res.DeployedFiat, string(res.Outcome), res.FailedLeg)
	return err
}
