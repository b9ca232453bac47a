package market

// Pair is one tradable symbol. Identity and static metadata are set at
// bootstrap and never change; the four Best* fields are overwritten together
// on every tick.
type Pair struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	LotSize     float64
	MinNotional float64

	BestBid    float64
	BestBidAmt float64
	BestAsk    float64
	BestAskAmt float64
}

// Enabled reports whether the pair has a two-sided quote and can be traded.
func (p Pair) Enabled() bool {
	return p.BestBid > 0 && p.BestBidAmt > 0 && p.BestAsk > 0 && p.BestAskAmt > 0
}

// SellPrice is the price at which base can be sold immediately.
func (p Pair) SellPrice() float64 { return p.BestBid }

// SellRate converts base to quote: quote = base * SellRate.
func (p Pair) SellRate() float64 { return p.BestBid }

// SellLiquidity is the displayed depth at the best bid, in base units.
func (p Pair) SellLiquidity() float64 { return p.BestBidAmt }

// BuyPrice is the price at which base can be bought immediately.
func (p Pair) BuyPrice() float64 { return p.BestAsk }

// BuyRate converts quote to base: base = quote * BuyRate. Undefined when the
// ask is zero; callers must check Enabled first.
func (p Pair) BuyRate() float64 { return 1 / p.BestAsk }

// BuyLiquidity is the displayed depth at the best ask, in base units.
func (p Pair) BuyLiquidity() float64 { return p.BestAskAmt }

// BaseToQuote converts a base amount to quote at the current sell rate,
// floored to 8 decimals.
func (p Pair) BaseToQuote(baseAmt float64) float64 {
	return FloorDecimals(baseAmt*p.SellRate(), 8)
}

// QuoteToBase converts a quote amount to base at the current buy rate,
// floored to 8 decimals.
func (p Pair) QuoteToBase(quoteAmt float64) float64 {
	return FloorDecimals(quoteAmt*p.BuyRate(), 8)
}
