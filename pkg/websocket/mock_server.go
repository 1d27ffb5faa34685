package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// MockServer is an in-process WebSocket server for tests. By default it
// echoes every text frame back to the sender; setting an OnMessage callback
// disables the echo and gives the test full control over responses.
type MockServer struct {
	server *httptest.Server
	url    string

	mu            sync.RWMutex
	clients       map[*websocket.Conn]bool
	onConnect     func(*websocket.Conn)
	onMessage     func(*websocket.Conn, []byte)
	messageBuffer [][]byte
	rejectUpgrade bool
}

// NewMockServer starts a mock WebSocket server
func NewMockServer() *MockServer {
	mock := &MockServer{
		clients: make(map[*websocket.Conn]bool),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handleUpgrade))
	mock.url = "ws" + strings.TrimPrefix(mock.server.URL, "http")
	return mock
}

// URL returns the ws:// URL of the mock server
func (m *MockServer) URL() string {
	return m.url
}

// Close shuts down the server and all client connections
func (m *MockServer) Close() {
	m.DropClients()
	m.server.Close()
}

// SetRejectUpgrade makes the server refuse new connections with 403
func (m *MockServer) SetRejectUpgrade(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectUpgrade = reject
}

// OnConnect sets a callback invoked for every new client
func (m *MockServer) OnConnect(callback func(*websocket.Conn)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnect = callback
}

// OnMessage sets a callback invoked for every received text frame. Setting
// a callback disables the default echo behaviour.
func (m *MockServer) OnMessage(callback func(*websocket.Conn, []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMessage = callback
}

// Broadcast sends a text frame to every connected client
func (m *MockServer) Broadcast(message []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn := range m.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, message)
	}
}

// CloseClients performs a clean close handshake with every client
func (m *MockServer) CloseClients() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn := range m.clients {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server going down"))
	}
}

// DropClients severs every client connection without a close frame
func (m *MockServer) DropClients() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn := range m.clients {
		_ = conn.Close()
	}
}

// ClientCount returns the number of active connections
func (m *MockServer) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// ReceivedMessages returns a copy of all text frames received so far
func (m *MockServer) ReceivedMessages() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	messages := make([][]byte, len(m.messageBuffer))
	copy(messages, m.messageBuffer)
	return messages
}

func (m *MockServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	reject := m.rejectUpgrade
	onConnect := m.onConnect
	m.mu.RUnlock()

	if reject {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	m.mu.Lock()
	m.clients[conn] = true
	m.mu.Unlock()

	if onConnect != nil {
		onConnect(conn)
	}

	defer func() {
		m.mu.Lock()
		delete(m.clients, conn)
		m.mu.Unlock()
		conn.Close()
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		m.mu.Lock()
		m.messageBuffer = append(m.messageBuffer, message)
		onMessage := m.onMessage
		m.mu.Unlock()

		if onMessage != nil {
			onMessage(conn, message)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// setupMockServer starts a server that is torn down with the test
func setupMockServer(t *testing.T) (*MockServer, string) {
	t.Helper()
	mock := NewMockServer()
	t.Cleanup(func() {
		mock.Close()
	})
	return mock, mock.URL()
}
