package arbitrage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"triarb/internal/config"
	"triarb/internal/exchange"
	"triarb/internal/execution"
	"triarb/internal/market"
	"triarb/internal/metrics"
	"triarb/internal/model"
)

// Notifier receives the engine's upward notifications.
type Notifier interface {
	OpportunityFound(ctx context.Context, opp model.Opportunity)
	AttemptFinished(ctx context.Context, res model.AttemptResult)
}

// Engine drives the whole pipeline: streaming tick -> pair store merge ->
// triangle resolution -> return calculation -> liquidity bound -> execution,
// with at most one execution attempt in flight.
type Engine struct {
	logger   *slog.Logger
	cfg      *config.Config
	client   exchange.Client
	notifier Notifier

	store    *market.Store
	resolver *Resolver

	// busy is the concurrency gate. It is set before an attempt's first order
	// and cleared when the attempt reaches a terminal state; ticks arriving
	// while it is set still update the store but start no evaluation.
	busy     atomic.Bool
	attempts sync.WaitGroup
}

// NewEngine creates a new Engine with an empty pair store.
func NewEngine(logger *slog.Logger, cfg *config.Config, client exchange.Client, notifier Notifier) *Engine {
	store := market.NewStore()
	return &Engine{
		logger:   logger,
		cfg:      cfg,
		client:   client,
		notifier: notifier,
		store:    store,
		resolver: NewResolver(store, cfg.Trading.FiatSymbol),
	}
}

// Run bootstraps the market state and processes the book ticker stream until
// the context is cancelled. Bootstrap failures are fatal and the stream is
// never started.
func (e *Engine) Run(ctx context.Context) error {
	symbols, err := e.client.FetchSymbols(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap symbols: %w", err)
	}
	e.store.Bootstrap(symbols)

	snapshot, err := e.client.FetchBookTickers(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap snapshot: %w", err)
	}
	e.store.ApplySnapshot(snapshot)
	e.logger.Info("market state bootstrapped", "venue", e.client.Name(), "pairs", e.store.Len())

	tickCh := make(chan model.BookTick, 1024)
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- e.client.StartStream(ctx, tickCh)
	}()

	for {
		select {
		case <-ctx.Done():
			e.attempts.Wait()
			return nil
		case err := <-streamErr:
			e.attempts.Wait()
			if err != nil {
				return fmt.Errorf("book ticker stream: %w", err)
			}
			return nil
		case tick := <-tickCh:
			e.handleTick(ctx, tick)
		}
	}
}

// handleTick is the single decision path. The store merge always happens;
// evaluation is skipped while an attempt is in flight, dropping the tick for
// decision purposes rather than queueing it.
func (e *Engine) handleTick(ctx context.Context, tick model.BookTick) {
	metrics.TicksTotal.Inc()
	changed, ok := e.store.ApplyTick(tick)
	if !ok {
		metrics.UnknownSymbolTicksTotal.Inc()
		return
	}
	if e.busy.Load() {
		metrics.GateSkipsTotal.Inc()
		return
	}
	e.evaluate(ctx, changed)
}

// evaluate walks the candidate triangles of the changed pair and executes the
// first one whose direct or indirect return clears the threshold. First
// match, not best match: scanning on after a qualifying triangle would trade
// latency for a marginally better cycle.
func (e *Engine) evaluate(ctx context.Context, changed market.Pair) {
	start := time.Now()
	defer func() {
		metrics.DecisionLatency.Observe(time.Since(start).Seconds())
	}()

	fees := e.cfg.Trading.TransactionFees
	threshold := e.cfg.Trading.ProfitThreshold
	for _, mid := range e.resolver.Middles(changed) {
		tri, ok := e.resolver.Resolve(mid)
		if !ok {
			continue
		}
		metrics.TrianglesCheckedTotal.Inc()

		if ret := DirectReturn(tri, fees); ret >= threshold {
			e.launchAttempt(ctx, tri, model.DirectionDirect, ret, DirectMaxFiat(tri, fees))
			return
		}
		if ret := IndirectReturn(tri, fees); ret >= threshold {
			e.launchAttempt(ctx, tri, model.DirectionIndirect, ret, IndirectMaxFiat(tri, fees))
			return
		}
	}
}

func (e *Engine) launchAttempt(ctx context.Context, tri Triangle, direction model.Direction, ret, maxFiat float64) {
	fiatAmt := maxFiat
	if limit := e.cfg.Trading.MaxFiatPerAttempt; limit > 0 && fiatAmt > limit {
		fiatAmt = limit
	}

	opp := model.Opportunity{
		Symbol:       tri.BaseToQuote.Symbol,
		Direction:    direction,
		ReturnPct:    ret * 100,
		MaxLiquidity: maxFiat,
		Timestamp:    time.Now(),
	}
	metrics.OpportunitiesTotal.WithLabelValues(string(direction)).Inc()
	e.logger.Info("arbitrage opportunity",
		"symbol", opp.Symbol, "direction", direction, "returnPct", opp.ReturnPct,
		"maxLiquidity", maxFiat, "deploying", fiatAmt, "fiat", e.cfg.Trading.FiatSymbol)
	e.notifier.OpportunityFound(ctx, opp)

	seq := execution.NewSequencer(e.logger, e.store, e.client, execution.Params{
		BaseToQuote:     tri.BaseToQuote.Symbol,
		BaseToFiat:      tri.BaseToFiat.Symbol,
		QuoteToFiat:     tri.QuoteToFiat.Symbol,
		Direction:       direction,
		FiatAmount:      fiatAmt,
		Fees:            e.cfg.Trading.TransactionFees,
		Recheck:         e.recheckFunc(tri, direction),
		ProfitThreshold: e.cfg.Trading.ProfitThreshold,
	})

	e.busy.Store(true)
	e.attempts.Add(1)
	go func() {
		defer e.attempts.Done()
		defer e.busy.Store(false)

		result := seq.Run(ctx)
		metrics.AttemptsTotal.WithLabelValues(string(result.Outcome)).Inc()
		e.logger.Info("attempt finished",
			"symbol", result.Symbol, "direction", result.Direction,
			"outcome", result.Outcome, "failedLeg", result.FailedLeg)
		e.notifier.AttemptFinished(ctx, result)
	}()
}

// recheckFunc re-prices the attempt's cycle from current quotes. The triangle
// is re-resolved so a leg that lost its two-sided quote mid-attempt reads as
// a vanished opportunity instead of producing a division fault.
func (e *Engine) recheckFunc(tri Triangle, direction model.Direction) func() (float64, bool) {
	return func() (float64, bool) {
		mid, ok := e.store.Get(tri.BaseToQuote.Symbol)
		if !ok || !mid.Enabled() {
			return 0, false
		}
		fresh, ok := e.resolver.Resolve(mid)
		if !ok {
			return 0, false
		}
		if direction == model.DirectionDirect {
			return DirectReturn(fresh, e.cfg.Trading.TransactionFees), true
		}
		return IndirectReturn(fresh, e.cfg.Trading.TransactionFees), true
	}
}
