package notify

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"triarb/internal/config"
	"triarb/internal/model"
)

// Redis publishes events onto a Redis Stream for downstream consumers.
type Redis struct {
	rdb    *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedis(cfg config.RedisConfig, logger *slog.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	return &Redis{rdb: rdb, stream: cfg.Stream, logger: logger}
}

func (r *Redis) OpportunityFound(ctx context.Context, opp model.Opportunity) {
	err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"event":         "opportunity",
			"symbol":        opp.Symbol,
			"direction":     string(opp.Direction),
			"return_pct":    opp.ReturnPct,
			"max_liquidity": opp.MaxLiquidity,
			"ts_ms":         opp.Timestamp.UnixMilli(),
		},
	}).Err()
	if err != nil {
		r.logger.Error("failed to publish opportunity", "error", err)
	}
}

func (r *Redis) AttemptFinished(ctx context.Context, res model.AttemptResult) {
	err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"event":         "attempt",
			"symbol":        res.Symbol,
			"direction":     string(res.Direction),
			"outcome":       string(res.Outcome),
			"deployed_fiat": res.DeployedFiat,
			"failed_leg":    res.FailedLeg,
			"ts_ms":         res.Timestamp.UnixMilli(),
		},
	}).Err()
	if err != nil {
		r.logger.Error("failed to publish attempt result", "error", err)
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
