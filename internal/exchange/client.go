package exchange

import (
	"context"

	"triarb/internal/model"
)

// Client defines the standard interface for venue connectivity: static
// metadata, the initial quote snapshot, the streaming book ticker and order
// submission.
type Client interface {
	Name() string
	FetchSymbols(ctx context.Context) ([]model.SymbolInfo, error)
	FetchBookTickers(ctx context.Context) ([]model.BookTick, error)
	// StartStream delivers incremental book ticks until the context is
	// cancelled or the stream fails terminally. It reconnects on transient
	// errors.
	StartStream(ctx context.Context, tickCh chan<- model.BookTick) error
	PlaceOrder(ctx context.Context, order model.Order) (model.OrderResult, error)
}
