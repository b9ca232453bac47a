package exchange

import (
	"fmt"
	"log/slog"

	"triarb/internal/config"
)

// NewClient creates the venue client for the configured venue, wrapped for
// paper trading when dry-run is enabled.
func NewClient(cfg *config.Config, logger *slog.Logger) (Client, error) {
	var client Client
	switch cfg.Trading.Venue {
	case "binance":
		client = NewBinanceClient(logger, cfg.Binance)
	default:
		return nil, fmt.Errorf("unknown venue: %s", cfg.Trading.Venue)
	}

	if cfg.Trading.DryRun {
		return NewPaperClient(client, logger), nil
	}
	return client, nil
}
