package market

import (
	"sync"

	"triarb/internal/model"
)

// Store is the authoritative in-memory map of every tradable symbol to its
// market state. The tick loop is the only writer; readers (the calculators
// and the in-flight attempt) get value copies, never a second writer.
type Store struct {
	mu    sync.RWMutex
	pairs map[string]*Pair
}

func NewStore() *Store {
	return &Store{pairs: make(map[string]*Pair)}
}

// Bootstrap creates one Pair per symbol with static metadata and zeroed
// market state. Called once before streaming begins.
func (s *Store) Bootstrap(symbols []model.SymbolInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, info := range symbols {
		s.pairs[info.Symbol] = &Pair{
			Symbol:      info.Symbol,
			BaseAsset:   info.BaseAsset,
			QuoteAsset:  info.QuoteAsset,
			LotSize:     info.LotSize,
			MinNotional: info.MinNotional,
		}
	}
}

// ApplySnapshot merges a batch of bid/ask snapshots into existing pairs.
// Symbols without a bootstrapped pair are skipped; snapshots never create
// pairs.
func (s *Store) ApplySnapshot(ticks []model.BookTick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tick := range ticks {
		if pair, ok := s.pairs[tick.Symbol]; ok {
			applyTick(pair, tick)
		}
	}
}

// ApplyTick merges one incremental bid/ask update and returns a copy of the
// updated pair. The second result is false for unknown symbols: the venue
// universe can drift, so an unknown symbol is not an error.
func (s *Store) ApplyTick(tick model.BookTick) (Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair, ok := s.pairs[tick.Symbol]
	if !ok {
		return Pair{}, false
	}
	applyTick(pair, tick)
	return *pair, true
}

// Get returns a copy of the pair for the given symbol.
func (s *Store) Get(symbol string) (Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pair, ok := s.pairs[symbol]; ok {
		return *pair, true
	}
	return Pair{}, false
}

// All returns copies of every pair in the store.
func (s *Store) All() []Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pairs := make([]Pair, 0, len(s.pairs))
	for _, pair := range s.pairs {
		pairs = append(pairs, *pair)
	}
	return pairs
}

// Len returns the number of known pairs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}

// applyTick overwrites the four dynamic fields as a group. Field by field on
// a fixed struct shape; identity and metadata are never touched.
func applyTick(pair *Pair, tick model.BookTick) {
	pair.BestBid = tick.BidPrice
	pair.BestBidAmt = tick.BidQty
	pair.BestAsk = tick.AskPrice
	pair.BestAskAmt = tick.AskQty
}
