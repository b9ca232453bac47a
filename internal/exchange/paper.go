package exchange

import (
	"context"
	"fmt"
	"log/slog"

	"triarb/internal/model"
)

// PaperClient wraps a real client for market data but simulates order
// placement, reporting every order as fully filled. Used for dry runs.
type PaperClient struct {
	Client
	logger *slog.Logger
}

// NewPaperClient creates a paper-trading wrapper around inner.
func NewPaperClient(inner Client, logger *slog.Logger) *PaperClient {
	return &PaperClient{Client: inner, logger: logger}
}

func (p *PaperClient) Name() string {
	return p.Client.Name() + "-paper"
}

func (p *PaperClient) PlaceOrder(_ context.Context, order model.Order) (model.OrderResult, error) {
	p.logger.Info("paper order filled",
		"symbol", order.OrderSymbol(), "quantity", order.OrderQuantity(), "type", fmt.Sprintf("%T", order))
	return model.OrderResult{Status: model.OrderStatusFilled, ExecutedQty: order.OrderQuantity()}, nil
}
