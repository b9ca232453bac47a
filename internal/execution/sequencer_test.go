package execution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"triarb/internal/market"
	"triarb/internal/model"
)

type MockPlacer struct {
	mock.Mock
}

func (m *MockPlacer) PlaceOrder(ctx context.Context, order model.Order) (model.OrderResult, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(model.OrderResult), args.Error(1)
}

// Fixture triangle: BASEFIAT ask=100 lot=0.001, BASEQUOTE bid=2 ask=2.1
// lot=0.01, QUOTEFIAT bid=52 ask=52.5 lot=0.1.
func newTestStore() *market.Store {
	store := market.NewStore()
	store.Bootstrap([]model.SymbolInfo{
		{Symbol: "BASEFIAT", BaseAsset: "BASE", QuoteAsset: "FIAT", LotSize: 0.001, MinNotional: 10},
		{Symbol: "BASEQUOTE", BaseAsset: "BASE", QuoteAsset: "QUOTE", LotSize: 0.01, MinNotional: 0.01},
		{Symbol: "QUOTEFIAT", BaseAsset: "QUOTE", QuoteAsset: "FIAT", LotSize: 0.1, MinNotional: 10},
	})
	store.ApplySnapshot([]model.BookTick{
		{Symbol: "BASEFIAT", BidPrice: 99, BidQty: 5, AskPrice: 100, AskQty: 5},
		{Symbol: "BASEQUOTE", BidPrice: 2, BidQty: 3, AskPrice: 2.1, AskQty: 4},
		{Symbol: "QUOTEFIAT", BidPrice: 52, BidQty: 100, AskPrice: 52.5, AskQty: 80},
	})
	return store
}

func newSequencer(placer OrderPlacer, direction model.Direction, recheck func() (float64, bool)) *Sequencer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSequencer(logger, newTestStore(), placer, Params{
		BaseToQuote:     "BASEQUOTE",
		BaseToFiat:      "BASEFIAT",
		QuoteToFiat:     "QUOTEFIAT",
		Direction:       direction,
		FiatAmount:      30,
		Fees:            0.001,
		Recheck:         recheck,
		ProfitThreshold: 0.01,
	})
}

func stillProfitable() (float64, bool) { return 0.05, true }

var filled = model.OrderResult{Status: model.OrderStatusFilled}

func TestSequencer_DirectCompletes(t *testing.T) {
	placer := new(MockPlacer)

	// 30 fiat buys 0.3 base at 100; net of fee 0.2997 floors to the middle
	// pair's 0.01 lot; 0.29 base sells for 0.58 quote, net of fee floors to
	// the final leg's 0.1 lot.
	placer.On("PlaceOrder", mock.Anything,
		model.LimitBuy{Symbol: "BASEFIAT", Price: 100, Quantity: 0.3, TimeInForce: model.TimeInForceFOK}).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.LimitSell{Symbol: "BASEQUOTE", Price: 2, Quantity: 0.29, TimeInForce: model.TimeInForceFOK}).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "QUOTEFIAT", Quantity: 0.5}).
		Return(filled, nil).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	assert.Equal(t, Completed, seq.State())
	assert.Equal(t, model.OutcomeCompleted, result.Outcome)
	assert.Zero(t, result.FailedLeg)
}

func TestSequencer_IndirectCompletes(t *testing.T) {
	placer := new(MockPlacer)

	// 30 fiat buys 0.5714... quote at 52.5, floored to the 0.1 lot; 0.4995
	// quote buys 0.2378... base at 2.1, floored to the 0.01 lot; 0.23 base
	// net of fee floors to the 0.001 lot.
	placer.On("PlaceOrder", mock.Anything,
		model.LimitBuy{Symbol: "QUOTEFIAT", Price: 52.5, Quantity: 0.5, TimeInForce: model.TimeInForceFOK}).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.LimitBuy{Symbol: "BASEQUOTE", Price: 2.1, Quantity: 0.23, TimeInForce: model.TimeInForceFOK}).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "BASEFIAT", Quantity: 0.229}).
		Return(filled, nil).Once()

	seq := newSequencer(placer, model.DirectionIndirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	assert.Equal(t, Completed, seq.State())
	assert.Equal(t, model.OutcomeCompleted, result.Outcome)
}

func TestSequencer_Leg1Expired_Aborts(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(model.OrderResult{Status: model.OrderStatusExpired}, nil).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	// No leg-2 order and no reversal: nothing was acquired.
	placer.AssertNumberOfCalls(t, "PlaceOrder", 1)
	assert.Equal(t, Aborted, seq.State())
	assert.Equal(t, model.OutcomeAborted, result.Outcome)
	assert.Equal(t, 1, result.FailedLeg)
}

func TestSequencer_Leg1Rejected_Aborts(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(model.OrderResult{}, errors.New("insufficient balance")).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertNumberOfCalls(t, "PlaceOrder", 1)
	assert.Equal(t, model.OutcomeAborted, result.Outcome)
	assert.Equal(t, 1, result.FailedLeg)
}

func TestSequencer_OpportunityConsumed_ReversesLeg1(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything,
		model.LimitBuy{Symbol: "BASEFIAT", Price: 100, Quantity: 0.3, TimeInForce: model.TimeInForceFOK}).
		Return(filled, nil).Once()
	// A single market sell of leg 1's realized base, net of fee.
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "BASEFIAT", Quantity: 0.299}).
		Return(filled, nil).Once()

	belowThreshold := func() (float64, bool) { return 0.001, true }
	seq := newSequencer(placer, model.DirectionDirect, belowThreshold)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	placer.AssertNumberOfCalls(t, "PlaceOrder", 2)
	assert.Equal(t, Reversed, seq.State())
	assert.Equal(t, model.OutcomeReversed, result.Outcome)
	assert.Equal(t, 1, result.FailedLeg)
}

func TestSequencer_UnquotableTriangle_ReversesLeg1(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitBuy")).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.MarketSell")).
		Return(filled, nil).Once()

	vanished := func() (float64, bool) { return 0, false }
	seq := newSequencer(placer, model.DirectionDirect, vanished)
	result := seq.Run(context.Background())

	placer.AssertNumberOfCalls(t, "PlaceOrder", 2)
	assert.Equal(t, model.OutcomeReversed, result.Outcome)
}

func TestSequencer_Leg2Expired_ReversesLeg1(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitBuy")).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitSell")).
		Return(model.OrderResult{Status: model.OrderStatusExpired}, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "BASEFIAT", Quantity: 0.299}).
		Return(filled, nil).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	assert.Equal(t, Reversed, seq.State())
	assert.Equal(t, model.OutcomeReversed, result.Outcome)
	assert.Equal(t, 2, result.FailedLeg)
}

func TestSequencer_Leg3Rejected_ReversesLeg1(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitBuy")).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitSell")).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "QUOTEFIAT", Quantity: 0.5}).
		Return(model.OrderResult{}, errors.New("market closed")).Once()
	placer.On("PlaceOrder", mock.Anything,
		model.MarketSell{Symbol: "BASEFIAT", Quantity: 0.299}).
		Return(filled, nil).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	assert.Equal(t, model.OutcomeReversed, result.Outcome)
	assert.Equal(t, 3, result.FailedLeg)
}

func TestSequencer_RejectedFallout_StillTerminates(t *testing.T) {
	placer := new(MockPlacer)
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitBuy")).
		Return(filled, nil).Once()
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.LimitSell")).
		Return(model.OrderResult{Status: model.OrderStatusExpired}, nil).Once()
	// The fallout itself is rejected; the attempt must still terminate.
	placer.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.MarketSell")).
		Return(model.OrderResult{}, errors.New("account frozen")).Once()

	seq := newSequencer(placer, model.DirectionDirect, stillProfitable)
	result := seq.Run(context.Background())

	placer.AssertExpectations(t)
	assert.Equal(t, Reversed, seq.State())
	assert.Equal(t, model.OutcomeReversed, result.Outcome)
	assert.Equal(t, 2, result.FailedLeg)
}
