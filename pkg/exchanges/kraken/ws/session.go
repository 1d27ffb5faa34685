package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
	"github.com/veiloq/kraken-connector/pkg/logging"
	"github.com/veiloq/kraken-connector/pkg/ratelimit"
	"github.com/veiloq/kraken-connector/pkg/websocket"
)

// DefaultURL is the production WebSocket v2 endpoint
const DefaultURL = "wss://ws.kraken.com/v2"

// Handlers holds the callbacks for inbound messages. All callbacks are
// invoked sequentially from the session's single read goroutine, in frame
// arrival order; a nil callback drops its message type silently except for
// OnUnknown, whose frames are logged.
type Handlers struct {
	OnSystemStatus       func(*SystemStatus)
	OnSubscriptionStatus func(*SubscriptionStatus)
	OnPingStatus         func(*PingStatus)
	OnHeartbeat          func(*Heartbeat)
	OnTradingAck         func(*TradingAck)

	OnTicker      func(*Ticker)
	OnBook        func(*Book)
	OnCandles     func(*Candles)
	OnTrades      func(*Trades)
	OnInstruments func(*Instruments)

	OnBalances   func(*Balances)
	OnExecutions func(*Executions)

	OnUnknown func(json.RawMessage)
}

// Options configures a stream session
type Options struct {
	// URL of the WebSocket endpoint; defaults to DefaultURL
	URL string

	// HandshakeTimeout bounds the connection handshake
	HandshakeTimeout time.Duration

	Handlers Handlers
	Logger   logging.Logger

	// SendRate caps outbound commands per second. Zero disables pacing.
	SendRate int
}

// Session is a single connection to the stream API. Commands may be sent
// from any goroutine; each serializes to one text frame. There is no
// automatic reconnection: when Done is closed the session is finished and
// Err reports why. Callers that want to resume open a new session and
// re-subscribe.
type Session struct {
	conn     websocket.Conn
	handlers Handlers
	logger   logging.Logger
	limiter  ratelimit.RateLimiter

	mu    sync.Mutex
	token string
}

// Connect dials the stream endpoint and starts the read loop. The
// handshake is attempted once; on failure the error is returned and no
// session is created.
func Connect(ctx context.Context, options Options) (*Session, error) {
	if options.URL == "" {
		options.URL = DefaultURL
	}
	if options.Logger == nil {
		options.Logger = logging.NewLogger()
	}

	session := &Session{
		handlers: options.Handlers,
		logger:   options.Logger,
	}
	if options.SendRate > 0 {
		session.limiter = ratelimit.NewPacingLimiter(ratelimit.Rate{
			Limit:    options.SendRate,
			Interval: time.Second,
		})
	}

	conn, err := websocket.Dial(ctx, websocket.Config{
		URL:              options.URL,
		HandshakeTimeout: options.HandshakeTimeout,
		Logger:           options.Logger,
	}, session.dispatch)
	if err != nil {
		return nil, err
	}
	session.conn = conn
	return session, nil
}

// newSessionWithConn wires a session over an existing connection, used by
// tests to inject a mock.
func newSessionWithConn(conn websocket.Conn, options Options) *Session {
	if options.Logger == nil {
		options.Logger = logging.NewLogger()
	}
	return &Session{
		conn:     conn,
		handlers: options.Handlers,
		logger:   options.Logger,
	}
}

// dispatch classifies one inbound frame and routes it to its handler
func (s *Session) dispatch(data []byte) {
	switch msg := Classify(data).(type) {
	case *SystemStatus:
		if s.handlers.OnSystemStatus != nil {
			s.handlers.OnSystemStatus(msg)
		}
	case *SubscriptionStatus:
		if s.handlers.OnSubscriptionStatus != nil {
			s.handlers.OnSubscriptionStatus(msg)
		}
	case *PingStatus:
		if s.handlers.OnPingStatus != nil {
			s.handlers.OnPingStatus(msg)
		}
	case *Heartbeat:
		if s.handlers.OnHeartbeat != nil {
			s.handlers.OnHeartbeat(msg)
		}
	case *TradingAck:
		if s.handlers.OnTradingAck != nil {
			s.handlers.OnTradingAck(msg)
		}
	case *Ticker:
		if s.handlers.OnTicker != nil {
			s.handlers.OnTicker(msg)
		}
	case *Book:
		if s.handlers.OnBook != nil {
			s.handlers.OnBook(msg)
		}
	case *Candles:
		if s.handlers.OnCandles != nil {
			s.handlers.OnCandles(msg)
		}
	case *Trades:
		if s.handlers.OnTrades != nil {
			s.handlers.OnTrades(msg)
		}
	case *Instruments:
		if s.handlers.OnInstruments != nil {
			s.handlers.OnInstruments(msg)
		}
	case *Balances:
		if s.handlers.OnBalances != nil {
			s.handlers.OnBalances(msg)
		}
	case *Executions:
		if s.handlers.OnExecutions != nil {
			s.handlers.OnExecutions(msg)
		}
	case json.RawMessage:
		if s.handlers.OnUnknown != nil {
			s.handlers.OnUnknown(msg)
			return
		}
		s.logger.Debug("unclassified frame", logging.Int("bytes", len(msg)))
	}
}

// send paces and transmits one command
func (s *Session) send(message interface{}) error {
	if !s.conn.IsConnected() {
		return fmt.Errorf("send: %w", interfaces.ErrSessionClosed)
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return fmt.Errorf("send pacing: %w", err)
		}
	}
	if err := s.conn.Send(message); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// authToken returns the stored token or an error when Authorize has not
// been called yet
func (s *Session) authToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", fmt.Errorf("trading command before authorize: %w", interfaces.ErrAuthenticationRequired)
	}
	return s.token, nil
}

// Ping sends a ping command; the answer arrives as a PingStatus message
func (s *Session) Ping(reqID *uint64) error {
	return s.send(PingRequest{Event: "ping", ReqID: reqID})
}

// Heartbeat sends a heartbeat command
func (s *Session) Heartbeat(reqID *uint64) error {
	return s.send(HeartbeatRequest{Event: "heartbeat", ReqID: reqID})
}

// Authorize sends the authorize command and retains the token for
// subsequent trading commands.
func (s *Session) Authorize(token string, reqID *uint64) error {
	if err := s.send(AuthorizeRequest{Event: "authorize", Token: token, ReqID: reqID}); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Subscribe requests a channel subscription; the broker answers with a
// SubscriptionStatus message
func (s *Session) Subscribe(subscription Subscription, reqID *uint64) error {
	return s.send(SubscribeRequest{Event: "subscribe", ReqID: reqID, Subscription: subscription})
}

// Unsubscribe requests a channel unsubscription
func (s *Session) Unsubscribe(subscription Subscription, reqID *uint64) error {
	return s.send(UnsubscribeRequest{Event: "unsubscribe", ReqID: reqID, Subscription: subscription})
}

// AddOrder submits a new order; the answer arrives as a TradingAck with
// event addOrderStatus
func (s *Session) AddOrder(order OrderSpec, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(AddOrderRequest{Event: "addOrder", Token: token, ReqID: reqID, OrderSpec: order})
}

// AmendOrder changes an open order in place
func (s *Session) AmendOrder(update OrderUpdate, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(AmendOrderRequest{Event: "amendOrder", Token: token, ReqID: reqID, OrderUpdate: update})
}

// EditOrder replaces an open order
func (s *Session) EditOrder(update OrderUpdate, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(EditOrderRequest{Event: "editOrder", Token: token, ReqID: reqID, OrderUpdate: update})
}

// CancelOrder cancels one order by transaction ID
func (s *Session) CancelOrder(txid string, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(CancelOrderRequest{Event: "cancelOrder", Token: token, ReqID: reqID, TxID: txid})
}

// CancelAll cancels every open order
func (s *Session) CancelAll(reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(CancelAllRequest{Event: "cancelAll", Token: token, ReqID: reqID})
}

// CancelOnDisconnect arms or disarms the dead man's switch for this
// connection
func (s *Session) CancelOnDisconnect(enable bool, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(CancelOnDisconnectRequest{Event: "cancelOnDisconnect", Token: token, ReqID: reqID, Enable: enable})
}

// BatchAdd submits several orders in one command
func (s *Session) BatchAdd(orders []OrderSpec, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(BatchAddRequest{Event: "batchAdd", Token: token, ReqID: reqID, Orders: orders})
}

// BatchCancel cancels several orders in one command
func (s *Session) BatchCancel(txids []string, reqID *uint64) error {
	token, err := s.authToken()
	if err != nil {
		return err
	}
	return s.send(BatchCancelRequest{Event: "batchCancel", Token: token, ReqID: reqID, Orders: txids})
}

// Done is closed when the read loop has terminated
func (s *Session) Done() <-chan struct{} {
	return s.conn.Done()
}

// Err reports why the session ended; nil after a clean close. Valid once
// Done is closed.
func (s *Session) Err() error {
	return s.conn.Err()
}

// IsConnected reports whether the session is still open
func (s *Session) IsConnected() bool {
	return s.conn.IsConnected()
}

// Metrics returns the underlying connection metrics
func (s *Session) Metrics() websocket.Metrics {
	return s.conn.Metrics()
}

// Close cleanly closes the session
func (s *Session) Close() error {
	return s.conn.Close()
}
