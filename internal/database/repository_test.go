package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"triarb/internal/model"
)

var (
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	// Define the PostgreSQL container request
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	// Create and start the PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("could not stop postgres container: %s", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	if err := NewPostgresRepository(pool).Migrate(ctx); err != nil {
		log.Fatalf("could not migrate: %s", err)
	}

	code := m.Run()

	os.Exit(code)
}

func TestPostgresRepository_LogOpportunity(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresRepository(pool)

	opp := model.Opportunity{
		Symbol:       "ETHBTC",
		Direction:    model.DirectionDirect,
		ReturnPct:    1.25,
		MaxLiquidity: 412.5,
		Timestamp:    time.Now(),
	}
	require.NoError(t, repo.LogOpportunity(ctx, opp))

	var logged model.Opportunity
	err := pool.QueryRow(ctx, `
	SELECT symbol, direction, return_pct, max_liquidity
	FROM opportunities WHERE symbol = 'ETHBTC'`).Scan(
		&logged.Symbol, &logged.Direction, &logged.ReturnPct, &logged.MaxLiquidity,
	)
	require.NoError(t, err)
	assert.Equal(t, opp.Symbol, logged.Symbol)
	assert.Equal(t, opp.Direction, logged.Direction)
	assert.Equal(t, opp.ReturnPct, logged.ReturnPct)
	assert.Equal(t, opp.MaxLiquidity, logged.MaxLiquidity)
}

func TestPostgresRepository_LogAttempt(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresRepository(pool)

	res := model.AttemptResult{
		Symbol:       "LTCBNB",
		Direction:    model.DirectionIndirect,
		DeployedFiat: 30,
		Outcome:      model.OutcomeReversed,
		FailedLeg:    2,
		Timestamp:    time.Now(),
	}
	require.NoError(t, repo.LogAttempt(ctx, res))

	var logged model.AttemptResult
	err := pool.QueryRow(ctx, `
	SELECT symbol, direction, deployed_fiat, outcome, failed_leg
	FROM attempts WHERE symbol = 'LTCBNB'`).Scan(
		&logged.Symbol, &logged.Direction, &logged.DeployedFiat, &logged.Outcome, &logged.FailedLeg,
	)
	require.NoError(t, err)
	assert.Equal(t, res.Direction, logged.Direction)
	assert.Equal(t, res.DeployedFiat, logged.DeployedFiat)
	assert.Equal(t, res.Outcome, logged.Outcome)
	assert.Equal(t, res.FailedLeg, logged.FailedLeg)
}
