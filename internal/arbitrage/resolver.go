package arbitrage

import (
	"triarb/internal/market"
)

// Triangle groups the three pairs of one closed 3-leg cycle: the middle leg
// and the two legs connecting its sides to the settlement asset. Triangles
// are recomputed fresh on every triggering tick and never stored.
type Triangle struct {
	BaseToQuote market.Pair
	BaseToFiat  market.Pair
	QuoteToFiat market.Pair
}

// Resolver finds the candidate triangles completed by the pair a tick just
// updated.
type Resolver struct {
	store *market.Store
	fiat  string
}

func NewResolver(store *market.Store, fiatSymbol string) *Resolver {
	return &Resolver{store: store, fiat: fiatSymbol}
}

// Middles returns the candidate middle legs for the changed pair.
//
// A pair trading against the settlement asset is itself a settlement leg, so
// the candidates are every other enabled pair touching its non-settlement
// asset. Any other pair can only be the middle leg of its own triangles.
func (r *Resolver) Middles(changed market.Pair) []market.Pair {
	if changed.BaseAsset != r.fiat && changed.QuoteAsset != r.fiat {
		if changed.Enabled() {
			return []market.Pair{changed}
		}
		return nil
	}

	other := changed.BaseAsset
	if other == r.fiat {
		other = changed.QuoteAsset
	}

	var mids []market.Pair
	for _, pair := range r.store.All() {
		if pair.Symbol == changed.Symbol || !pair.Enabled() {
			continue
		}
		if pair.BaseAsset == other || pair.QuoteAsset == other {
			mids = append(mids, pair)
		}
	}
	return mids
}

// Resolve completes the triangle for a middle leg by looking up the two
// settlement legs by symbol concatenation. A missing or disabled leg
// invalidates the triangle; legs are never fabricated.
func (r *Resolver) Resolve(mid market.Pair) (Triangle, bool) {
	baseToFiat, ok := r.store.Get(mid.BaseAsset + r.fiat)
	if !ok || !baseToFiat.Enabled() {
		return Triangle{}, false
	}
	quoteToFiat, ok := r.store.Get(mid.QuoteAsset + r.fiat)
	if !ok || !quoteToFiat.Enabled() {
		return Triangle{}, false
	}
	return Triangle{BaseToQuote: mid, BaseToFiat: baseToFiat, QuoteToFiat: quoteToFiat}, true
}
