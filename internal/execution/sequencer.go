package execution

import (
	"context"
	"log/slog"
	"time"

	"triarb/internal/market"
	"triarb/internal/metrics"
	"triarb/internal/model"
)

// State is the position of an attempt in its lifecycle.
type State int

const (
	NotStarted State = iota
	Leg1Placed
	Leg2Placed
	Leg3Placed
	Completed
	Aborted
	Reversed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Leg1Placed:
		return "leg1-placed"
	case Leg2Placed:
		return "leg2-placed"
	case Leg3Placed:
		return "leg3-placed"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	case Reversed:
		return "reversed"
	}
	return "unknown"
}

// OrderPlacer submits a single order to the venue.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order model.Order) (model.OrderResult, error)
}

// Params describes one execution attempt.
type Params struct {
	BaseToQuote string
	BaseToFiat  string
	QuoteToFiat string
	Direction   model.Direction
	// FiatAmount is the settlement amount to deploy, already capped.
	FiatAmount float64
	Fees       float64
	// Recheck recomputes the attempt's return from current quotes. It returns
	// false when the triangle can no longer be priced.
	Recheck         func() (float64, bool)
	ProfitThreshold float64
}

// Sequencer walks one opportunity through its three legs. Each leg's quantity
// derives from the previous leg's realized output at current quotes, and a
// fallout order unwinds leg 1 whenever a later leg cannot proceed.
type Sequencer struct {
	logger *slog.Logger
	store  *market.Store
	placer OrderPlacer
	params Params

	state     State
	firstQty  float64
	secondQty float64
}

func NewSequencer(logger *slog.Logger, store *market.Store, placer OrderPlacer, params Params) *Sequencer {
	return &Sequencer{logger: logger, store: store, placer: placer, params: params}
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State { return s.state }

// Run executes the attempt to a terminal state. All order-level failures are
// absorbed here; the result reports the outcome and the failing leg.
func (s *Sequencer) Run(ctx context.Context) model.AttemptResult {
	result := model.AttemptResult{
		Symbol:       s.params.BaseToQuote,
		Direction:    s.params.Direction,
		DeployedFiat: s.params.FiatAmount,
		Timestamp:    time.Now(),
	}

	if s.placeFirstLeg(ctx, &result) &&
		s.recheckOpportunity(ctx, &result) &&
		s.placeSecondLeg(ctx, &result) &&
		s.placeThirdLeg(ctx, &result) {
		s.state = Completed
		result.Outcome = model.OutcomeCompleted
		s.logger.Info("completed arbitrage", "symbol", s.params.BaseToQuote, "direction", s.params.Direction)
	}
	return result
}

// legOneSymbol is the settlement leg entered first: base side for the direct
// cycle, quote side for the indirect one.
func (s *Sequencer) legOneSymbol() string {
	if s.params.Direction == model.DirectionDirect {
		return s.params.BaseToFiat
	}
	return s.params.QuoteToFiat
}

// legThreeSymbol is the settlement leg closing the cycle.
func (s *Sequencer) legThreeSymbol() string {
	if s.params.Direction == model.DirectionDirect {
		return s.params.QuoteToFiat
	}
	return s.params.BaseToFiat
}

func (s *Sequencer) placeFirstLeg(ctx context.Context, result *model.AttemptResult) bool {
	pair, ok := s.store.Get(s.legOneSymbol())
	if !ok || !pair.Enabled() {
		return s.abort(result, 1, "first leg no longer quotable")
	}

	s.firstQty = market.FloorToLot(pair.LotSize, pair.QuoteToBase(s.params.FiatAmount))
	if s.firstQty <= 0 {
		return s.abort(result, 1, "first leg quantity rounds to zero")
	}

	order := model.LimitBuy{
		Symbol:      pair.Symbol,
		Price:       pair.BuyPrice(),
		Quantity:    s.firstQty,
		TimeInForce: model.TimeInForceFOK,
	}
	res, err := s.place(ctx, order)
	if err != nil {
		s.logger.Error("order rejected", "symbol", pair.Symbol, "leg", 1, "direction", s.params.Direction, "error", err)
		return s.abort(result, 1, "first leg rejected")
	}
	s.state = Leg1Placed
	if res.Status == model.OrderStatusExpired {
		metrics.OrdersExpiredTotal.Inc()
		return s.abort(result, 1, "first leg unfilled")
	}
	return true
}

// recheckOpportunity re-prices the cycle after leg 1's fill latency. A return
// below threshold means the remaining legs no longer pay for the position, so
// leg 1 is unwound instead.
func (s *Sequencer) recheckOpportunity(ctx context.Context, result *model.AttemptResult) bool {
	ret, ok := s.params.Recheck()
	if ok && ret >= s.params.ProfitThreshold {
		return true
	}
	s.logger.Info("arbitrage opportunity consumed, reversing",
		"symbol", s.params.BaseToQuote, "direction", s.params.Direction, "return", ret)
	return s.reverseFirstLeg(ctx, result, 1)
}

func (s *Sequencer) placeSecondLeg(ctx context.Context, result *model.AttemptResult) bool {
	pair, ok := s.store.Get(s.params.BaseToQuote)
	if !ok || !pair.Enabled() {
		s.logger.Warn("middle leg no longer quotable, reversing", "symbol", s.params.BaseToQuote)
		return s.reverseFirstLeg(ctx, result, 2)
	}

	netFirst := s.firstQty * (1 - s.params.Fees)
	var order model.Order
	if s.params.Direction == model.DirectionDirect {
		s.secondQty = market.FloorToLot(pair.LotSize, netFirst)
		order = model.LimitSell{
			Symbol:      pair.Symbol,
			Price:       pair.SellPrice(),
			Quantity:    s.secondQty,
			TimeInForce: model.TimeInForceFOK,
		}
	} else {
		s.secondQty = market.FloorToLot(pair.LotSize, pair.QuoteToBase(netFirst))
		order = model.LimitBuy{
			Symbol:      pair.Symbol,
			Price:       pair.BuyPrice(),
			Quantity:    s.secondQty,
			TimeInForce: model.TimeInForceFOK,
		}
	}

	res, err := s.place(ctx, order)
	if err != nil {
		s.logger.Error("order rejected", "symbol", pair.Symbol, "leg", 2, "direction", s.params.Direction, "error", err)
		return s.reverseFirstLeg(ctx, result, 2)
	}
	s.state = Leg2Placed
	if res.Status == model.OrderStatusExpired {
		metrics.OrdersExpiredTotal.Inc()
		s.logger.Info("second leg unfilled, reversing", "symbol", pair.Symbol)
		return s.reverseFirstLeg(ctx, result, 2)
	}
	return true
}

func (s *Sequencer) placeThirdLeg(ctx context.Context, result *model.AttemptResult) bool {
	pair, ok := s.store.Get(s.legThreeSymbol())
	if !ok {
		return s.reverseFirstLeg(ctx, result, 3)
	}

	var qty float64
	if s.params.Direction == model.DirectionDirect {
		mid, ok := s.store.Get(s.params.BaseToQuote)
		if !ok {
			return s.reverseFirstLeg(ctx, result, 3)
		}
		qty = market.FloorToLot(pair.LotSize, mid.BaseToQuote(s.secondQty)*(1-s.params.Fees))
	} else {
		qty = market.FloorToLot(pair.LotSize, s.secondQty*(1-s.params.Fees))
	}

	_, err := s.place(ctx, model.MarketSell{Symbol: pair.Symbol, Quantity: qty})
	if err != nil {
		s.logger.Error("order rejected", "symbol", pair.Symbol, "leg", 3, "direction", s.params.Direction, "error", err)
		return s.reverseFirstLeg(ctx, result, 3)
	}
	s.state = Leg3Placed
	return true
}

// reverseFirstLeg issues the fallout order: a market sell of whatever leg 1
// acquired, net of its fee. A rejection here leaves the position open and is
// escalated in the logs, but never crashes the process.
func (s *Sequencer) reverseFirstLeg(ctx context.Context, result *model.AttemptResult, failedLeg int) bool {
	pair, ok := s.store.Get(s.legOneSymbol())
	if ok {
		qty := market.FloorToLot(pair.LotSize, s.firstQty*(1-s.params.Fees))
		_, err := s.place(ctx, model.MarketSell{Symbol: pair.Symbol, Quantity: qty})
		if err != nil {
			s.logger.Error("fallout order rejected, position may be stuck",
				"symbol", pair.Symbol, "leg", failedLeg, "fallout", true, "direction", s.params.Direction, "error", err)
		}
	}
	s.state = Reversed
	result.Outcome = model.OutcomeReversed
	result.FailedLeg = failedLeg
	return false
}

func (s *Sequencer) abort(result *model.AttemptResult, failedLeg int, reason string) bool {
	s.logger.Info("attempt aborted", "symbol", s.params.BaseToQuote, "leg", failedLeg, "reason", reason)
	s.state = Aborted
	result.Outcome = model.OutcomeAborted
	result.FailedLeg = failedLeg
	return false
}

func (s *Sequencer) place(ctx context.Context, order model.Order) (model.OrderResult, error) {
	orderType := "limit"
	if _, ok := order.(model.MarketSell); ok {
		orderType = "market"
	}
	metrics.OrdersSubmittedTotal.WithLabelValues(orderType).Inc()
	res, err := s.placer.PlaceOrder(ctx, order)
	if err != nil {
		metrics.OrdersRejectedTotal.Inc()
	}
	return res, err
}
