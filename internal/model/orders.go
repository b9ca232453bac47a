package model

// TimeInForceFOK makes a limit order fill completely and immediately or be
// cancelled by the venue, which reports it with status EXPIRED.
const TimeInForceFOK = "FOK"

// OrderStatus is the venue-reported status of a placed order.
type OrderStatus string

const (
	OrderStatusNew     OrderStatus = "NEW"
	OrderStatusFilled  OrderStatus = "FILLED"
	OrderStatusExpired OrderStatus = "EXPIRED"
)

// OrderResult is the venue response to a placed order.
type OrderResult struct {
	Status      OrderStatus
	ExecutedQty float64
}

// Order is one of the order intents the sequencer can place. Each intent is
// its own struct so leg construction is checked at compile time instead of
// being a positional parameter tuple.
type Order interface {
	OrderSymbol() string
	OrderQuantity() float64
}

// LimitBuy buys Quantity of the base asset at Price.
type LimitBuy struct {
	Symbol      string
	Price       float64
	Quantity    float64
	TimeInForce string
}

// LimitSell sells Quantity of the base asset at Price.
type LimitSell struct {
	Symbol      string
	Price       float64
	Quantity    float64
	TimeInForce string
}

// MarketSell sells Quantity of the base asset at whatever the book offers.
// Used for the final leg and for fallout orders, where the position must be
// closed regardless of price.
type MarketSell struct {
	Symbol   string
	Quantity float64
}

func (o LimitBuy) OrderSymbol() string      { return o.Symbol }
func (o LimitBuy) OrderQuantity() float64   { return o.Quantity }
func (o LimitSell) OrderSymbol() string     { return o.Symbol }
func (o LimitSell) OrderQuantity() float64  { return o.Quantity }
func (o MarketSell) OrderSymbol() string    { return o.Symbol }
func (o MarketSell) OrderQuantity() float64 { return o.Quantity }
