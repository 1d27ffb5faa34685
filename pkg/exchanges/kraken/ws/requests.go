// Package ws implements a typed session over the spot WebSocket API v2.
//
// Outbound commands are plain structs serialized to JSON text frames.
// Inbound frames are classified into the typed messages in messages.go and
// dispatched to caller-provided handlers from a single read goroutine.
package ws

// Subscription identifies one channel with its parameters. Embedding it in
// the subscribe/unsubscribe requests flattens the fields into the payload,
// matching the wire format.
type Subscription struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol,omitempty"`
	Depth    int    `json:"depth,omitempty"`
	Interval int    `json:"interval,omitempty"`
}

// TickerSubscription subscribes to level-1 quotes for a symbol
func TickerSubscription(symbol string) Subscription {
	return Subscription{Name: "ticker", Symbol: symbol}
}

// BookSubscription subscribes to the level-2 book at the given depth
func BookSubscription(symbol string, depth int) Subscription {
	return Subscription{Name: "book", Symbol: symbol, Depth: depth}
}

// CandlesSubscription subscribes to OHLC data at the given interval in minutes
func CandlesSubscription(symbol string, interval int) Subscription {
	return Subscription{Name: "candles", Symbol: symbol, Interval: interval}
}

// TradesSubscription subscribes to the public trade feed for a symbol
func TradesSubscription(symbol string) Subscription {
	return Subscription{Name: "trades", Symbol: symbol}
}

// InstrumentsSubscription subscribes to instrument reference data. An empty
// symbol subscribes to all instruments.
func InstrumentsSubscription(symbol string) Subscription {
	return Subscription{Name: "instruments", Symbol: symbol}
}

// BalancesSubscription subscribes to account balance updates. Requires a
// prior Authorize call.
func BalancesSubscription() Subscription {
	return Subscription{Name: "balances"}
}

// ExecutionsSubscription subscribes to own-execution updates. Requires a
// prior Authorize call.
func ExecutionsSubscription() Subscription {
	return Subscription{Name: "executions"}
}

// PingRequest is the "ping" command
type PingRequest struct {
	Event string  `json:"event"`
	ReqID *uint64 `json:"req_id,omitempty"`
}

// HeartbeatRequest is the "heartbeat" command
type HeartbeatRequest struct {
	Event string  `json:"event"`
	ReqID *uint64 `json:"req_id,omitempty"`
}

// AuthorizeRequest is the "authorize" command carrying the token obtained
// from the REST WebSocketsToken endpoint
type AuthorizeRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
}

// SubscribeRequest is the "subscribe" command
type SubscribeRequest struct {
	Event string  `json:"event"`
	ReqID *uint64 `json:"req_id,omitempty"`
	Subscription
}

// UnsubscribeRequest is the "unsubscribe" command
type UnsubscribeRequest struct {
	Event string  `json:"event"`
	ReqID *uint64 `json:"req_id,omitempty"`
	Subscription
}

// OrderSpec holds the order parameters shared by addOrder and batchAdd.
// Quantities and prices are decimal strings.
type OrderSpec struct {
	OrderType string `json:"orderType"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Quantity  string `json:"quantity"`

	Price               string `json:"price,omitempty"`
	StopPrice           string `json:"stopPrice,omitempty"`
	LimitPrice          string `json:"limitPrice,omitempty"`
	TimeInForce         string `json:"timeInForce,omitempty"`
	ExpireTime          string `json:"expireTime,omitempty"`
	PostOnly            *bool  `json:"postOnly,omitempty"`
	ReduceOnly          *bool  `json:"reduceOnly,omitempty"`
	SelfTradePrevention string `json:"selfTradePrevention,omitempty"`
	TriggerSignal       string `json:"triggerSignal,omitempty"`
	Leverage            string `json:"leverage,omitempty"`
	ClientOrderID       string `json:"clientOrderId,omitempty"`

	// Conditional close parameters
	TakeProfit        string `json:"takeProfit,omitempty"`
	TakeProfitPrice   string `json:"takeProfitPrice,omitempty"`
	StopLoss          string `json:"stopLoss,omitempty"`
	StopLossPrice     string `json:"stopLossPrice,omitempty"`
	ConditionalClose  *bool  `json:"conditionalClose,omitempty"`
	ClosePrice        string `json:"closePrice,omitempty"`
	TakeProfitTrigger string `json:"takeProfitTrigger,omitempty"`
	StopLossTrigger   string `json:"stopLossTrigger,omitempty"`
	PositionID        string `json:"positionId,omitempty"`
}

// OrderUpdate holds the mutable order parameters shared by amendOrder and
// editOrder. TxID names the order being changed; zero-valued fields are
// omitted from the payload and left unchanged.
type OrderUpdate struct {
	TxID string `json:"txid"`

	Quantity    string `json:"quantity,omitempty"`
	Price       string `json:"price,omitempty"`
	StopPrice   string `json:"stopPrice,omitempty"`
	LimitPrice  string `json:"limitPrice,omitempty"`
	TimeInForce string `json:"timeInForce,omitempty"`
	ExpireTime  string `json:"expireTime,omitempty"`
	PostOnly    *bool  `json:"postOnly,omitempty"`
	ReduceOnly  *bool  `json:"reduceOnly,omitempty"`

	TriggerSignal     string `json:"triggerSignal,omitempty"`
	TakeProfit        string `json:"takeProfit,omitempty"`
	TakeProfitPrice   string `json:"takeProfitPrice,omitempty"`
	StopLoss          string `json:"stopLoss,omitempty"`
	StopLossPrice     string `json:"stopLossPrice,omitempty"`
	ConditionalClose  *bool  `json:"conditionalClose,omitempty"`
	ClosePrice        string `json:"closePrice,omitempty"`
	TakeProfitTrigger string `json:"takeProfitTrigger,omitempty"`
	StopLossTrigger   string `json:"stopLossTrigger,omitempty"`
}

// AddOrderRequest is the "addOrder" command
type AddOrderRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
	OrderSpec
}

// AmendOrderRequest is the "amendOrder" command
type AmendOrderRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
	OrderUpdate
}

// EditOrderRequest is the "editOrder" command
type EditOrderRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
	OrderUpdate
}

// CancelOrderRequest is the "cancelOrder" command
type CancelOrderRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
	TxID  string  `json:"txid"`
}

// CancelAllRequest is the "cancelAll" command
type CancelAllRequest struct {
	Event string  `json:"event"`
	Token string  `json:"token"`
	ReqID *uint64 `json:"req_id,omitempty"`
}

// CancelOnDisconnectRequest is the "cancelOnDisconnect" command. With
// Enable set, the exchange cancels all open orders when this connection
// drops.
type CancelOnDisconnectRequest struct {
	Event  string  `json:"event"`
	Token  string  `json:"token"`
	ReqID  *uint64 `json:"req_id,omitempty"`
	Enable bool    `json:"enable"`
}

// BatchAddRequest is the "batchAdd" command
type BatchAddRequest struct {
	Event  string      `json:"event"`
	Token  string      `json:"token"`
	ReqID  *uint64     `json:"req_id,omitempty"`
	Orders []OrderSpec `json:"orders"`
}

// BatchCancelRequest is the "batchCancel" command
type BatchCancelRequest struct {
	Event  string   `json:"event"`
	Token  string   `json:"token"`
	ReqID  *uint64  `json:"req_id,omitempty"`
	Orders []string `json:"orders"`
}
