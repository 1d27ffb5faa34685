package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestConn(t *testing.T, url string, handler MessageHandler) Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Dial(ctx, Config{URL: url}, handler)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func TestDialAndEcho(t *testing.T) {
	_, url := setupMockServer(t)

	received := make(chan []byte, 1)
	conn := dialTestConn(t, url, func(message []byte) {
		received <- message
	})

	require.True(t, conn.IsConnected())
	require.NoError(t, conn.Send([]byte(`{"method":"ping"}`)))

	select {
	case msg := <-received:
		assert.JSONEq(t, `{"method":"ping"}`, string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echo")
	}

	metrics := conn.Metrics()
	assert.Equal(t, int64(1), metrics.MessageCount)
	assert.False(t, metrics.ConnectedTime.IsZero())
}

func TestDialFailure(t *testing.T) {
	mock, url := setupMockServer(t)
	mock.SetRejectUpgrade(true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := Dial(ctx, Config{URL: url}, func([]byte) {})
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "websocket dial")
}

func TestInboundOrdering(t *testing.T) {
	mock, url := setupMockServer(t)

	const total = 50
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	conn := dialTestConn(t, url, func(message []byte) {
		var payload struct {
			Seq int `json:"seq"`
		}
		assert.NoError(t, json.Unmarshal(message, &payload))
		mu.Lock()
		got = append(got, payload.Seq)
		if len(got) == total {
			close(done)
		}
		mu.Unlock()
	})
	require.True(t, conn.IsConnected())

	for i := 0; i < total; i++ {
		mock.Broadcast([]byte(fmt.Sprintf(`{"seq":%d}`, i)))
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for messages")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, seq := range got {
		assert.Equal(t, i, seq, "messages must be delivered in arrival order")
	}
}

func TestConcurrentSends(t *testing.T) {
	mock, url := setupMockServer(t)

	conn := dialTestConn(t, url, func([]byte) {})

	const senders = 8
	const perSender = 10
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				err := conn.Send(map[string]int{"sender": id, "n": j})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// Every frame must arrive intact, none interleaved with another.
	assert.Eventually(t, func() bool {
		return len(mock.ReceivedMessages()) == senders*perSender
	}, 3*time.Second, 20*time.Millisecond)

	for _, msg := range mock.ReceivedMessages() {
		var payload struct {
			Sender int `json:"sender"`
			N      int `json:"n"`
		}
		assert.NoError(t, json.Unmarshal(msg, &payload))
	}
}

func TestServerCloseReleasesDone(t *testing.T) {
	mock, url := setupMockServer(t)

	conn := dialTestConn(t, url, func([]byte) {})
	require.True(t, conn.IsConnected())

	mock.CloseClients()

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after server close frame")
	}

	assert.NoError(t, conn.Err(), "clean close must not record an error")
	assert.False(t, conn.IsConnected())
	assert.Error(t, conn.Send([]byte("late")), "send after close must fail")
}

func TestServerDropRecordsError(t *testing.T) {
	mock, url := setupMockServer(t)

	conn := dialTestConn(t, url, func([]byte) {})

	mock.DropClients()

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after connection drop")
	}

	assert.Error(t, conn.Err(), "abrupt drop must record the read error")
}

func TestLocalClose(t *testing.T) {
	_, url := setupMockServer(t)

	conn := dialTestConn(t, url, func([]byte) {})

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "Close must be idempotent")

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after local Close")
	}
	assert.NoError(t, conn.Err())
}

func TestMockConn(t *testing.T) {
	mock := NewMockConn()

	require.NoError(t, mock.Send(map[string]string{"method": "ping"}))
	assert.JSONEq(t, `{"method":"ping"}`, string(mock.LastSent()))
	assert.Len(t, mock.Sent(), 1)

	mock.SetSendError(fmt.Errorf("boom"))
	assert.EqualError(t, mock.Send([]byte("x")), "boom")

	mock.Terminate(fmt.Errorf("peer vanished"))
	select {
	case <-mock.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Terminate")
	}
	assert.EqualError(t, mock.Err(), "peer vanished")
	assert.False(t, mock.IsConnected())
}
