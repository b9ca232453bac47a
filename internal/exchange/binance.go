package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"triarb/internal/config"
	"triarb/internal/metrics"
	"triarb/internal/model"
)

// BinanceClient implements the Client interface for Binance spot.
type BinanceClient struct {
	logger *slog.Logger
	cfg    config.BinanceConfig
	http   *http.Client
}

// NewBinanceClient creates a new BinanceClient.
func NewBinanceClient(logger *slog.Logger, cfg config.BinanceConfig) *BinanceClient {
	return &BinanceClient{
		logger: logger,
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *BinanceClient) Name() string {
	return "binance"
}

type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		BaseAsset  string `json:"baseAsset"`
		QuoteAsset string `json:"quoteAsset"`
		Filters    []struct {
			FilterType  string `json:"filterType"`
			MinQty      string `json:"minQty"`
			MinNotional string `json:"minNotional"`
		} `json:"filters"`
	} `json:"symbols"`
}

// FetchSymbols fetches static metadata for every trading symbol. Lot size and
// minimum notional come from the LOT_SIZE and NOTIONAL filters, matched by
// filter type.
func (b *BinanceClient) FetchSymbols(ctx context.Context) ([]model.SymbolInfo, error) {
	var info exchangeInfoResponse
	if err := b.getJSON(ctx, "/api/v3/exchangeInfo", &info); err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	symbols := make([]model.SymbolInfo, 0, len(info.Symbols))
	for _, sym := range info.Symbols {
		if sym.Status != "TRADING" {
			continue
		}
		si := model.SymbolInfo{
			Symbol:     sym.Symbol,
			BaseAsset:  sym.BaseAsset,
			QuoteAsset: sym.QuoteAsset,
		}
		for _, f := range sym.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				si.LotSize, _ = strconv.ParseFloat(f.MinQty, 64)
			case "NOTIONAL", "MIN_NOTIONAL":
				si.MinNotional, _ = strconv.ParseFloat(f.MinNotional, 64)
			}
		}
		symbols = append(symbols, si)
	}
	return symbols, nil
}

type bookTickerEntry struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// FetchBookTickers fetches the one-time best bid/ask snapshot for all symbols.
func (b *BinanceClient) FetchBookTickers(ctx context.Context) ([]model.BookTick, error) {
	var entries []bookTickerEntry
	if err := b.getJSON(ctx, "/api/v3/ticker/bookTicker", &entries); err != nil {
		return nil, fmt.Errorf("book ticker snapshot: %w", err)
	}

	ticks := make([]model.BookTick, 0, len(entries))
	for _, e := range entries {
		tick, err := parseBookTick(e.Symbol, e.BidPrice, e.BidQty, e.AskPrice, e.AskQty)
		if err != nil {
			b.logger.Warn("skipping malformed snapshot entry", "symbol", e.Symbol, "error", err)
			continue
		}
		ticks = append(ticks, tick)
	}
	return ticks, nil
}

type bookTickerMessage struct {
	Symbol   string `json:"s"`
	BidPrice string `json:"b"`
	BidQty   string `json:"B"`
	AskPrice string `json:"a"`
	AskQty   string `json:"A"`
}

// StartStream connects to the all-market book ticker stream and forwards
// ticks until the context is cancelled. Transient failures reconnect with
// exponential backoff.
func (b *BinanceClient) StartStream(ctx context.Context, tickCh chan<- model.BookTick) error {
	wsURL := b.cfg.WsURL + "/ws/!bookTicker"
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("book ticker stream shutting down")
			return nil
		default:
		}

		b.logger.Info("connecting to book ticker stream", "url", wsURL, "backoff", backoff)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			b.logger.Error("book ticker connection failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 16*time.Second {
					backoff = 16 * time.Second
				}
			}
			continue
		}

		// Reset backoff on successful connection
		backoff = time.Second
		b.logger.Info("book ticker stream connected")

		if err := b.readTicks(ctx, conn, tickCh); err != nil {
			b.logger.Error("book ticker read failed, reconnecting", "error", err)
			metrics.WSReconnectsTotal.Inc()
			continue
		}
		return nil
	}
}

// readTicks pumps one connection. A nil return means the context ended and
// the stream should stop; an error triggers a reconnect.
func (b *BinanceClient) readTicks(ctx context.Context, conn *websocket.Conn, tickCh chan<- model.BookTick) error {
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg bookTickerMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			b.logger.Warn("failed to parse book ticker message", "error", err)
			continue
		}
		tick, err := parseBookTick(msg.Symbol, msg.BidPrice, msg.BidQty, msg.AskPrice, msg.AskQty)
		if err != nil {
			b.logger.Warn("failed to parse book ticker fields", "symbol", msg.Symbol, "error", err)
			continue
		}

		select {
		case tickCh <- tick:
		case <-ctx.Done():
			return nil
		}
	}
}

// PlaceOrder submits a signed order and reports the venue status. A non-2xx
// response is a rejection and surfaces as an error.
func (b *BinanceClient) PlaceOrder(ctx context.Context, order model.Order) (model.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", order.OrderSymbol())
	params.Set("quantity", formatFloat(order.OrderQuantity()))

	switch o := order.(type) {
	case model.LimitBuy:
		params.Set("side", "BUY")
		params.Set("type", "LIMIT")
		params.Set("price", formatFloat(o.Price))
		params.Set("timeInForce", o.TimeInForce)
	case model.LimitSell:
		params.Set("side", "SELL")
		params.Set("type", "LIMIT")
		params.Set("price", formatFloat(o.Price))
		params.Set("timeInForce", o.TimeInForce)
	case model.MarketSell:
		params.Set("side", "SELL")
		params.Set("type", "MARKET")
	default:
		return model.OrderResult{}, fmt.Errorf("unsupported order type %T", order)
	}

	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + b.sign(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.cfg.RestURL+"/api/v3/order?"+query, nil)
	if err != nil {
		return model.OrderResult{}, err
	}
	req.Header.Set("X-MBX-APIKEY", b.cfg.APIKey)

	resp, err := b.http.Do(req)
	if err != nil {
		return model.OrderResult{}, fmt.Errorf("order request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.OrderResult{}, fmt.Errorf("order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.OrderResult{}, fmt.Errorf("order rejected (%d): %s", resp.StatusCode, body)
	}

	var parsed struct {
		Status      string `json:"status"`
		ExecutedQty string `json:"executedQty"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.OrderResult{}, fmt.Errorf("order response: %w", err)
	}
	executed, _ := strconv.ParseFloat(parsed.ExecutedQty, 64)
	return model.OrderResult{Status: model.OrderStatus(parsed.Status), ExecutedQty: executed}, nil
}

func (b *BinanceClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.RestURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *BinanceClient) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(b.cfg.SecretKey))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseBookTick(symbol, bidPrice, bidQty, askPrice, askQty string) (model.BookTick, error) {
	bp, err := strconv.ParseFloat(bidPrice, 64)
	if err != nil {
		return model.BookTick{}, fmt.Errorf("bid price: %w", err)
	}
	bq, err := strconv.ParseFloat(bidQty, 64)
	if err != nil {
		return model.BookTick{}, fmt.Errorf("bid qty: %w", err)
	}
	ap, err := strconv.ParseFloat(askPrice, 64)
	if err != nil {
		return model.BookTick{}, fmt.Errorf("ask price: %w", err)
	}
	aq, err := strconv.ParseFloat(askQty, 64)
	if err != nil {
		return model.BookTick{}, fmt.Errorf("ask qty: %w", err)
	}
	return model.BookTick{Symbol: symbol, BidPrice: bp, BidQty: bq, AskPrice: ap, AskQty: aq}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
