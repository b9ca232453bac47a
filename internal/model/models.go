package model

import "time"

// SymbolInfo is the static metadata of one tradable symbol, fetched once at
// bootstrap and immutable afterwards.
type SymbolInfo struct {
	Symbol      string
	BaseAsset   string
	QuoteAsset  string
	LotSize     float64
	MinNotional float64
}

// BookTick is a single best bid/ask update for a symbol, either from the
// initial REST snapshot or from the streaming book ticker.
type BookTick struct {
	Symbol   string
	BidPrice float64
	BidQty   float64
	AskPrice float64
	AskQty   float64
}

// Direction names the two 3-leg round trips through the settlement asset.
type Direction string

const (
	// DirectionDirect is settlement -> base -> quote -> settlement.
	DirectionDirect Direction = "DIRECT"
	// DirectionIndirect is settlement -> quote -> base -> settlement.
	DirectionIndirect Direction = "INDIRECT"
)

// Outcome is the terminal state of an execution attempt.
type Outcome string

const (
	OutcomeCompleted Outcome = "COMPLETED"
	OutcomeAborted   Outcome = "ABORTED"
	OutcomeReversed  Outcome = "REVERSED"
)

// Opportunity is the notification emitted when a triangle crosses the profit
// threshold.
type Opportunity struct {
	Symbol       string
	Direction    Direction
	ReturnPct    float64
	MaxLiquidity float64
	Timestamp    time.Time
}

// AttemptResult is the notification emitted when an execution attempt reaches
// a terminal state. FailedLeg is zero for completed attempts.
type AttemptResult struct {
	Symbol       string
	Direction    Direction
	DeployedFiat float64
	Outcome      Outcome
	FailedLeg    int
	Timestamp    time.Time
}
