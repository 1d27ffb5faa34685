package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veiloq/kraken-connector/pkg/logging"
)

// MessageHandler is a callback invoked for every inbound text frame, in
// arrival order, from the connection's single read goroutine.
type MessageHandler func(message []byte)

// Config holds connection configuration
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	Logger           logging.Logger
}

// Metrics holds connection and message statistics
type Metrics struct {
	ConnectedTime time.Time
	MessageCount  int64
	ErrorCount    int64
}

// Conn is a single duplex WebSocket connection.
//
// The write half is shared: any number of goroutines may call Send, each
// frame write is serialized under a lock. The read half is owned by one
// background goroutine started at dial time; it delivers text frames to the
// handler and terminates on a close frame or read error. There is no
// automatic reconnection: once Done is closed the connection is finished.
type Conn interface {
	// Send serializes message to JSON (or writes it as-is when it is a
	// []byte) and transmits it as one text frame.
	Send(message interface{}) error

	// Done is closed when the read loop has terminated, either by a close
	// frame, a read error, or a local Close.
	Done() <-chan struct{}

	// Err returns the read error that terminated the connection, or nil
	// after a clean close. Valid once Done is closed.
	Err() error

	// IsConnected reports whether the connection is still open
	IsConnected() bool

	// Metrics returns the current connection metrics
	Metrics() Metrics

	// Close cleanly closes the connection. Safe to call more than once.
	Close() error
}

// conn implements the Conn interface over a gorilla/websocket connection
type conn struct {
	ws      *websocket.Conn
	handler MessageHandler
	logger  logging.Logger

	writeMu sync.Mutex

	connected atomic.Bool
	closing   atomic.Bool
	done      chan struct{}

	errMu   sync.Mutex
	readErr error

	metricsMu sync.RWMutex
	metrics   Metrics
}

// Dial establishes the WebSocket connection and starts the read loop. The
// handshake is attempted once; on failure the error is returned and no
// retry is made.
func Dial(ctx context.Context, config Config, handler MessageHandler) (Conn, error) {
	if config.Logger == nil {
		config.Logger = logging.NewLogger()
	}
	if handler == nil {
		return nil, fmt.Errorf("websocket dial: nil message handler")
	}

	timeout := config.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	config.Logger.Debug("attempting websocket connection",
		logging.String("url", config.URL),
	)

	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
	}
	ws, _, err := dialer.DialContext(ctx, config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", config.URL, err)
	}

	c := &conn{
		ws:      ws,
		handler: handler,
		logger:  config.Logger,
		done:    make(chan struct{}),
	}
	c.connected.Store(true)
	c.metrics.ConnectedTime = time.Now()

	ws.SetPongHandler(func(payload string) error {
		c.logger.Debug("pong received")
		return nil
	})

	go c.readLoop()

	config.Logger.Info("websocket connected", logging.String("url", config.URL))
	return c, nil
}

// readLoop is the sole reader of the connection. It runs until a close
// frame or read error terminates it, then records the terminal status and
// closes the done channel.
func (c *conn) readLoop() {
	defer func() {
		c.connected.Store(false)
		_ = c.ws.Close()
		close(c.done)
		c.logger.Info("read loop stopped")
	}()

	for {
		messageType, message, err := c.ws.ReadMessage()
		if err != nil {
			if c.closing.Load() || isNormalClose(err) {
				c.logger.Debug("websocket closed", logging.Error(err))
				return
			}
			c.errMu.Lock()
			c.readErr = fmt.Errorf("websocket read: %w", err)
			c.errMu.Unlock()

			c.metricsMu.Lock()
			c.metrics.ErrorCount++
			c.metricsMu.Unlock()

			c.logger.Warn("read error", logging.Error(err))
			return
		}

		switch messageType {
		case websocket.TextMessage:
			c.metricsMu.Lock()
			c.metrics.MessageCount++
			c.metricsMu.Unlock()
			c.handler(message)
		case websocket.BinaryMessage:
			c.logger.Warn("ignoring binary frame", logging.Int("bytes", len(message)))
		default:
			c.logger.Debug("ignoring control frame", logging.Int("type", messageType))
		}
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
	)
}

// Send implements Conn interface
func (c *conn) Send(message interface{}) error {
	if !c.connected.Load() {
		return fmt.Errorf("websocket not connected")
	}

	data, ok := message.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Done implements Conn interface
func (c *conn) Done() <-chan struct{} {
	return c.done
}

// Err implements Conn interface
func (c *conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.readErr
}

// IsConnected implements Conn interface
func (c *conn) IsConnected() bool {
	return c.connected.Load()
}

// Metrics implements Conn interface
func (c *conn) Metrics() Metrics {
	c.metricsMu.RLock()
	defer c.metricsMu.RUnlock()
	return c.metrics
}

// Close implements Conn interface
func (c *conn) Close() error {
	if !c.closing.CompareAndSwap(false, true) {
		return nil // already closing
	}
	c.connected.Store(false)

	// Send the close frame; the peer's close reply (or the closed socket)
	// terminates the read loop, which releases Done.
	c.writeMu.Lock()
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client closed connection"))
	c.writeMu.Unlock()

	select {
	case <-c.done:
	case <-time.After(time.Second):
		_ = c.ws.Close()
	}
	return nil
}
