package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MockConn is a Conn implementation for tests. It records every sent
// message, supports send-error injection and lets the test terminate the
// connection with an arbitrary error.
type MockConn struct {
	mu       sync.Mutex
	sent     [][]byte
	sendErr  error
	closed   bool
	done     chan struct{}
	err      error
	metrics  Metrics
	doneOnce sync.Once
}

// NewMockConn returns a connected mock
func NewMockConn() *MockConn {
	return &MockConn{
		done:    make(chan struct{}),
		metrics: Metrics{ConnectedTime: time.Now()},
	}
}

// SetSendError makes subsequent Send calls fail with err
func (m *MockConn) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Sent returns a copy of all messages sent so far, in order
func (m *MockConn) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastSent returns the most recently sent message, or nil
func (m *MockConn) LastSent() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

// Terminate simulates the read loop stopping with err (nil for a clean
// peer-initiated close)
func (m *MockConn) Terminate(err error) {
	m.mu.Lock()
	m.closed = true
	m.err = err
	m.mu.Unlock()
	m.doneOnce.Do(func() { close(m.done) })
}

// Send implements Conn interface
func (m *MockConn) Send(message interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("websocket not connected")
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	data, ok := message.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
	}
	m.sent = append(m.sent, data)
	return nil
}

// Done implements Conn interface
func (m *MockConn) Done() <-chan struct{} {
	return m.done
}

// Err implements Conn interface
func (m *MockConn) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// IsConnected implements Conn interface
func (m *MockConn) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Metrics implements Conn interface
func (m *MockConn) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// Close implements Conn interface
func (m *MockConn) Close() error {
	m.Terminate(nil)
	return nil
}
