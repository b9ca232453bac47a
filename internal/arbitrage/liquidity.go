package arbitrage

// DirectMaxFiat is the maximum settlement amount that can flow through the
// direct cycle without exceeding any leg's displayed depth. Each bound is the
// leg's depth converted back to settlement units through the rates and fee
// deductions separating it from the settlement asset.
func DirectMaxFiat(t Triangle, fees float64) float64 {
	keep := 1 - fees

	// fiat spendable buying base of the mid pair
	maxBuyableBaseVal := t.BaseToFiat.BuyLiquidity() / t.BaseToFiat.BuyRate()
	// fiat spendable buying base and selling it for quote of the mid pair
	maxSellableBaseVal := t.BaseToQuote.SellLiquidity() /
		keep /
		t.BaseToFiat.BuyRate()
	// fiat spendable buying base, selling it for quote and selling the quote
	// for fiat
	maxSellableQuoteVal := t.QuoteToFiat.SellLiquidity() /
		keep /
		t.BaseToQuote.SellRate() /
		keep /
		t.BaseToFiat.BuyRate()

	return min(maxBuyableBaseVal, maxSellableBaseVal, maxSellableQuoteVal)
}

// IndirectMaxFiat is the depth bound for the indirect cycle, symmetric to
// DirectMaxFiat under leg relabeling.
func IndirectMaxFiat(t Triangle, fees float64) float64 {
	keep := 1 - fees

	// fiat spendable buying quote of the mid pair
	maxBuyableQuoteVal := t.QuoteToFiat.BuyLiquidity() / t.QuoteToFiat.BuyRate()
	// fiat spendable buying quote and using it to buy base of the mid pair
	maxSellableQuoteVal := t.BaseToQuote.BuyLiquidity() /
		t.BaseToQuote.BuyRate() /
		keep /
		t.QuoteToFiat.BuyRate()
	// fiat spendable buying quote, buying base with it and selling the base
	// for fiat
	maxSellableBaseVal := t.BaseToFiat.SellLiquidity() /
		keep /
		t.BaseToQuote.BuyRate() /
		keep /
		t.QuoteToFiat.BuyRate()

	return min(maxBuyableQuoteVal, maxSellableQuoteVal, maxSellableBaseVal)
}
