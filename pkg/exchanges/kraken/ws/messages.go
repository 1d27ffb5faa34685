package ws

import "encoding/json"

// Inbound messages. Admin and trading acknowledgements are tagged by their
// "event" field; market and user data streams are tagged by "channel".

// SystemStatus is the connection-level status announcement
type SystemStatus struct {
	Event   string `json:"event"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// SubscriptionStatus confirms or rejects a subscribe/unsubscribe command
type SubscriptionStatus struct {
	Event        string  `json:"event"`
	Channel      string  `json:"channel"`
	Status       string  `json:"status"`
	ReqID        *uint64 `json:"req_id,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// PingStatus answers a ping command
type PingStatus struct {
	Event string  `json:"event"`
	ReqID *uint64 `json:"req_id,omitempty"`
}

// Heartbeat is the periodic liveness message
type Heartbeat struct {
	Event string `json:"event"`
}

// BatchResult is one entry in a batchAdd or batchCancel acknowledgement
type BatchResult struct {
	TxID          string `json:"txid,omitempty"`
	Status        string `json:"status,omitempty"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// TradingAck acknowledges a trading command. Event names which command:
// addOrderStatus, amendOrderStatus, editOrderStatus, cancelOrderStatus,
// cancelAllStatus, cancelOnDisconnectStatus, batchAddStatus or
// batchCancelStatus. Count is set for cancelAllStatus, Results for the
// batch acknowledgements.
type TradingAck struct {
	Event        string        `json:"event"`
	Status       string        `json:"status"`
	TxID         string        `json:"txid,omitempty"`
	ReqID        *uint64       `json:"req_id,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Count        *int64        `json:"count,omitempty"`
	Results      []BatchResult `json:"results,omitempty"`
}

// Ticker is a level-1 quote update
type Ticker struct {
	Channel           string `json:"channel"`
	Symbol            string `json:"symbol"`
	BestAskPrice      string `json:"best_ask_price"`
	BestAskQuantity   string `json:"best_ask_quantity"`
	BestBidPrice      string `json:"best_bid_price"`
	BestBidQuantity   string `json:"best_bid_quantity"`
	LastTradePrice    string `json:"last_trade_price"`
	LastTradeQuantity string `json:"last_trade_quantity"`
	Volume24h         string `json:"volume_24h"`
	VWAP24h           string `json:"vwap_24h"`
	Trades24h         int64  `json:"trades_24h"`
	Low24h            string `json:"low_24h"`
	High24h           string `json:"high_24h"`
	Open24h           string `json:"open_24h"`
}

// BookLevel is one price level of the level-2 book
type BookLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Book is a level-2 snapshot or incremental update
type Book struct {
	Channel string      `json:"channel"`
	Symbol  string      `json:"symbol"`
	Bids    []BookLevel `json:"bids"`
	Asks    []BookLevel `json:"asks"`
}

// Candle is one OHLC row
type Candle struct {
	Time   int64  `json:"time"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// Candles is an OHLC update
type Candles struct {
	Channel  string   `json:"channel"`
	Symbol   string   `json:"symbol"`
	Interval int      `json:"interval"`
	Data     []Candle `json:"data"`
}

// Trade is one public execution
type Trade struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Time     int64  `json:"time"`
	Side     string `json:"side"`
}

// Trades is a public trade feed update
type Trades struct {
	Channel string  `json:"channel"`
	Symbol  string  `json:"symbol"`
	Trades  []Trade `json:"trades"`
}

// Instrument is reference data for one tradeable symbol
type Instrument struct {
	Symbol           string `json:"symbol"`
	Status           string `json:"status"`
	BaseCurrency     string `json:"base_currency"`
	QuoteCurrency    string `json:"quote_currency"`
	PriceDecimals    int    `json:"price_decimals"`
	QuantityDecimals int    `json:"quantity_decimals"`
	Marginable       bool   `json:"marginable"`
	MarginRatio      string `json:"margin_ratio"`
	MaxLeverage      string `json:"max_leverage"`
	MinLeverage      string `json:"min_leverage"`
	MakerFee         string `json:"maker_fee"`
	TakerFee         string `json:"taker_fee"`
	MinVolume        string `json:"min_volume"`
	MaxVolume        string `json:"max_volume"`
	TickSize         string `json:"tick_size"`
	LotSize          string `json:"lot_size"`
}

// Instruments is a reference data update
type Instruments struct {
	Channel string       `json:"channel"`
	Symbol  string       `json:"symbol,omitempty"`
	Data    []Instrument `json:"data"`
}

// Balances is an account balance update. Amounts are decimal strings
// keyed by asset code.
type Balances struct {
	Channel  string            `json:"channel"`
	Balances map[string]string `json:"balances"`
}

// Execution is one own-trade fill
type Execution struct {
	Symbol      string `json:"symbol"`
	OrderID     string `json:"order_id"`
	ExecID      string `json:"exec_id"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Side        string `json:"side"`
	Time        int64  `json:"time"`
	Cost        string `json:"cost"`
	Fee         string `json:"fee"`
	FeeCurrency string `json:"fee_currency"`
	Liquidity   string `json:"liquidity"`
}

// Executions is an own-execution update
type Executions struct {
	Channel    string      `json:"channel"`
	Executions []Execution `json:"executions"`
}

// tradingAckEvents lists the event tags acknowledging trading commands
var tradingAckEvents = map[string]bool{
	"addOrderStatus":           true,
	"amendOrderStatus":         true,
	"editOrderStatus":          true,
	"cancelOrderStatus":        true,
	"cancelAllStatus":          true,
	"cancelOnDisconnectStatus": true,
	"batchAddStatus":           true,
	"batchCancelStatus":        true,
}

// Classify parses one inbound text frame into its typed message. The
// "event" tag is inspected first (admin messages and trading acks), then
// the "channel" tag (market and user data). Frames matching neither, and
// frames whose payload does not decode into the matched type, come back
// as json.RawMessage so the caller can still observe them.
func Classify(data []byte) interface{} {
	var probe struct {
		Event   string `json:"event"`
		Channel string `json:"channel"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return json.RawMessage(data)
	}

	switch probe.Event {
	case "systemStatus":
		return decodeAs(data, &SystemStatus{})
	case "subscriptionStatus":
		return decodeAs(data, &SubscriptionStatus{})
	case "pingStatus", "pong":
		return decodeAs(data, &PingStatus{})
	case "heartbeat":
		return decodeAs(data, &Heartbeat{})
	}
	if tradingAckEvents[probe.Event] {
		return decodeAs(data, &TradingAck{})
	}

	switch probe.Channel {
	case "ticker":
		return decodeAs(data, &Ticker{})
	case "book":
		return decodeAs(data, &Book{})
	case "candles":
		return decodeAs(data, &Candles{})
	case "trades":
		return decodeAs(data, &Trades{})
	case "instruments":
		return decodeAs(data, &Instruments{})
	case "balances":
		return decodeAs(data, &Balances{})
	case "executions":
		return decodeAs(data, &Executions{})
	}

	return json.RawMessage(data)
}

func decodeAs(data []byte, out interface{}) interface{} {
	if err := json.Unmarshal(data, out); err != nil {
		return json.RawMessage(data)
	}
	return out
}
