package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"triarb/internal/market"
	"triarb/internal/model"
)

// The shared fixture is one full triangle against FIAT: BASEFIAT ask=100,
// BASEQUOTE bid=2, QUOTEFIAT bid=52 gives a 4% direct round trip before fees.
func testSymbols() []model.SymbolInfo {
	return []model.SymbolInfo{
		{Symbol: "BASEFIAT", BaseAsset: "BASE", QuoteAsset: "FIAT", LotSize: 0.001, MinNotional: 10},
		{Symbol: "BASEQUOTE", BaseAsset: "BASE", QuoteAsset: "QUOTE", LotSize: 0.01, MinNotional: 0.01},
		{Symbol: "QUOTEFIAT", BaseAsset: "QUOTE", QuoteAsset: "FIAT", LotSize: 0.1, MinNotional: 10},
	}
}

func testTicks() []model.BookTick {
	return []model.BookTick{
		{Symbol: "BASEFIAT", BidPrice: 99, BidQty: 5, AskPrice: 100, AskQty: 5},
		{Symbol: "BASEQUOTE", BidPrice: 2, BidQty: 3, AskPrice: 2.1, AskQty: 4},
		{Symbol: "QUOTEFIAT", BidPrice: 52, BidQty: 100, AskPrice: 52.5, AskQty: 80},
	}
}

func newTestStore() *market.Store {
	store := market.NewStore()
	store.Bootstrap(testSymbols())
	store.ApplySnapshot(testTicks())
	return store
}

func testTriangle(t *testing.T, store *market.Store) Triangle {
	t.Helper()
	mid, ok := store.Get("BASEQUOTE")
	require.True(t, ok)
	tri, ok := NewResolver(store, "FIAT").Resolve(mid)
	require.True(t, ok)
	return tri
}

func TestNetFeeFactor(t *testing.T) {
	assert.InDelta(t, 0.997003, NetFeeFactor(0.001), 1e-9)
	assert.Equal(t, 1.0, NetFeeFactor(0))
}

func TestDirectReturn(t *testing.T) {
	tri := testTriangle(t, newTestStore())

	// (1/100) * 2 * 52 - 1 = 4%
	assert.InDelta(t, 0.04, DirectReturn(tri, 0), 1e-9)

	// Fees compound multiplicatively across the three legs.
	assert.InDelta(t, 1.04*0.997003-1, DirectReturn(tri, 0.001), 1e-6)
}

func TestIndirectReturn(t *testing.T) {
	tri := testTriangle(t, newTestStore())

	// Buying quote at 52.5 and base at 2.1, then selling base at 99, loses.
	assert.Less(t, IndirectReturn(tri, 0), 0.0)

	// Flip the books so the indirect cycle pays: sell base at 104 fiat after
	// buying it for 2.1 quote bought at 49: 104 / (2.1 * 49) - 1 ~ 1.07%.
	store := newTestStore()
	store.ApplyTick(model.BookTick{Symbol: "BASEFIAT", BidPrice: 104, BidQty: 5, AskPrice: 105, AskQty: 5})
	store.ApplyTick(model.BookTick{Symbol: "QUOTEFIAT", BidPrice: 48, BidQty: 100, AskPrice: 49, AskQty: 80})
	tri = testTriangle(t, store)
	assert.InDelta(t, 104.0/(2.1*49)-1, IndirectReturn(tri, 0), 1e-6)
}

func TestDirectMaxFiat(t *testing.T) {
	tri := testTriangle(t, newTestStore())

	// bound1: 5 base of depth on BASEFIAT's ask   -> 5 / (1/100)     = 500
	// bound2: 3 base of depth on BASEQUOTE's bid  -> 3 / (1/100)     = 300
	// bound3: 100 quote of depth on QUOTEFIAT bid -> 100 / 2 / (1/100) = 5000
	assert.InDelta(t, 300, DirectMaxFiat(tri, 0), 1e-9)

	// With fees each hop needs slightly more input for the same depth.
	assert.InDelta(t, 3/0.999*100, DirectMaxFiat(tri, 0.001), 1e-6)
}

func TestIndirectMaxFiat(t *testing.T) {
	tri := testTriangle(t, newTestStore())

	// bound1: 80 quote on QUOTEFIAT's ask  -> 80 * 52.5        = 4200
	// bound2: 4 base on BASEQUOTE's ask    -> 4 * 2.1 * 52.5   = 441
	// bound3: 5 base on BASEFIAT's bid     -> 5 * 2.1 * 52.5   = 551.25
	assert.InDelta(t, 441, IndirectMaxFiat(tri, 0), 1e-9)
}

func TestIndirectMaxFiat_FinalLegBounds(t *testing.T) {
	// Shrink the final settlement leg's depth until it becomes the binding
	// constraint: 1 base * 2.1 * 52.5 = 110.25.
	store := newTestStore()
	store.ApplyTick(model.BookTick{Symbol: "BASEFIAT", BidPrice: 99, BidQty: 1, AskPrice: 100, AskQty: 5})
	tri := testTriangle(t, store)

	assert.InDelta(t, 110.25, IndirectMaxFiat(tri, 0), 1e-9)
}
