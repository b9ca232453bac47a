package arbitrage

// NetFeeFactor is the multiplicative fee factor of a full cycle: the per-leg
// fee applied three times.
func NetFeeFactor(fees float64) float64 {
	keep := 1 - fees
	return keep * keep * keep
}

// DirectReturn is the net return of settlement -> base -> quote -> settlement:
// buy base with fiat, sell base for quote, sell quote for fiat. All three
// pairs must be enabled; callers guard this.
func DirectReturn(t Triangle, fees float64) float64 {
	conversion := t.QuoteToFiat.BaseToQuote(t.BaseToQuote.BaseToQuote(t.BaseToFiat.QuoteToBase(1)))
	return conversion*NetFeeFactor(fees) - 1
}

// IndirectReturn is the net return of settlement -> quote -> base ->
// settlement: buy quote with fiat, buy base with quote, sell base for fiat.
func IndirectReturn(t Triangle, fees float64) float64 {
	conversion := t.BaseToFiat.BaseToQuote(t.BaseToQuote.QuoteToBase(t.QuoteToFiat.QuoteToBase(1)))
	return conversion*NetFeeFactor(fees) - 1
}
