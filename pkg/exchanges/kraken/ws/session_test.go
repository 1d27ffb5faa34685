package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
	"github.com/veiloq/kraken-connector/pkg/websocket"
)

func TestSessionPingSerializesCommand(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	reqID := uint64(3)
	require.NoError(t, session.Ping(&reqID))
	assert.JSONEq(t, `{"event":"ping","req_id":3}`, string(conn.LastSent()))

	require.NoError(t, session.Ping(nil))
	assert.JSONEq(t, `{"event":"ping"}`, string(conn.LastSent()))
}

func TestSessionSubscribe(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	require.NoError(t, session.Subscribe(TickerSubscription("BTC/USD"), nil))
	assert.JSONEq(t, `{"event":"subscribe","name":"ticker","symbol":"BTC/USD"}`, string(conn.LastSent()))

	require.NoError(t, session.Unsubscribe(CandlesSubscription("ETH/USD", 5), nil))
	assert.JSONEq(t, `{"event":"unsubscribe","name":"candles","symbol":"ETH/USD","interval":5}`, string(conn.LastSent()))
}

func TestSessionTradingRequiresAuthorize(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	err := session.AddOrder(OrderSpec{OrderType: "market", Symbol: "BTC/USD", Side: "buy", Quantity: "0.1"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrAuthenticationRequired))
	assert.Empty(t, conn.Sent(), "unauthorized trading command must not reach the wire")
}

func TestSessionAuthorizeEnablesTrading(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	require.NoError(t, session.Authorize("ws-token", nil))
	assert.JSONEq(t, `{"event":"authorize","token":"ws-token"}`, string(conn.LastSent()))

	require.NoError(t, session.CancelOrder("OABC12-DEF34-GHI56", nil))
	assert.JSONEq(t, `{"event":"cancelOrder","token":"ws-token","txid":"OABC12-DEF34-GHI56"}`, string(conn.LastSent()))

	require.NoError(t, session.CancelAll(nil))
	assert.JSONEq(t, `{"event":"cancelAll","token":"ws-token"}`, string(conn.LastSent()))

	require.NoError(t, session.CancelOnDisconnect(true, nil))
	assert.JSONEq(t, `{"event":"cancelOnDisconnect","token":"ws-token","enable":true}`, string(conn.LastSent()))

	require.NoError(t, session.BatchCancel([]string{"OAAA11", "OBBB22"}, nil))
	assert.JSONEq(t, `{"event":"batchCancel","token":"ws-token","orders":["OAAA11","OBBB22"]}`, string(conn.LastSent()))
}

func TestSessionSendFailureSurfaces(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	conn.SetSendError(errors.New("wire broke"))
	err := session.Ping(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wire broke")
}

func TestSessionClosedRejectsCommands(t *testing.T) {
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{})

	conn.Terminate(nil)
	err := session.Subscribe(TickerSubscription("BTC/USD"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrSessionClosed))
}

func TestSessionDispatch(t *testing.T) {
	var (
		statuses []string
		tickers  []string
		unknown  int
	)
	conn := websocket.NewMockConn()
	session := newSessionWithConn(conn, Options{
		Handlers: Handlers{
			OnSubscriptionStatus: func(msg *SubscriptionStatus) {
				statuses = append(statuses, msg.Status)
			},
			OnTicker: func(msg *Ticker) {
				tickers = append(tickers, msg.Symbol)
			},
			OnUnknown: func(json.RawMessage) {
				unknown++
			},
		},
	})

	session.dispatch([]byte(`{"event":"subscriptionStatus","channel":"ticker","status":"subscribed"}`))
	session.dispatch([]byte(`{"channel":"ticker","symbol":"BTC/USD","best_ask_price":"1","best_ask_quantity":"1","best_bid_price":"1","best_bid_quantity":"1","last_trade_price":"1","last_trade_quantity":"1","volume_24h":"1","vwap_24h":"1","trades_24h":1,"low_24h":"1","high_24h":"1","open_24h":"1"}`))
	session.dispatch([]byte(`{"event":"heartbeat"}`)) // no handler set, dropped
	session.dispatch([]byte(`{"event":"neverSeenBefore"}`))

	assert.Equal(t, []string{"subscribed"}, statuses)
	assert.Equal(t, []string{"BTC/USD"}, tickers)
	assert.Equal(t, 1, unknown)
}

// End-to-end over a real socket: subscribe, receive the confirmation and a
// data frame, then observe the server-initiated close.
func TestSessionRoundTrip(t *testing.T) {
	server := websocket.NewMockServer()
	t.Cleanup(server.Close)

	server.OnMessage(func(conn *gorilla.Conn, message []byte) {
		var req SubscribeRequest
		if err := json.Unmarshal(message, &req); err != nil || req.Event != "subscribe" {
			return
		}
		confirm, _ := json.Marshal(SubscriptionStatus{
			Event:   "subscriptionStatus",
			Channel: req.Name,
			Status:  "subscribed",
			ReqID:   req.ReqID,
		})
		_ = conn.WriteMessage(gorilla.TextMessage, confirm)
		_ = conn.WriteMessage(gorilla.TextMessage, []byte(`{"channel":"trades","symbol":"BTC/USD","trades":[{"price":"50000","quantity":"0.1","time":1700000000,"side":"sell"}]}`))
	})

	confirmed := make(chan *SubscriptionStatus, 1)
	trades := make(chan *Trades, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := Connect(ctx, Options{
		URL: server.URL(),
		Handlers: Handlers{
			OnSubscriptionStatus: func(msg *SubscriptionStatus) { confirmed <- msg },
			OnTrades:             func(msg *Trades) { trades <- msg },
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	reqID := uint64(11)
	require.NoError(t, session.Subscribe(TradesSubscription("BTC/USD"), &reqID))

	select {
	case msg := <-confirmed:
		assert.Equal(t, "trades", msg.Channel)
		assert.Equal(t, "subscribed", msg.Status)
		require.NotNil(t, msg.ReqID)
		assert.Equal(t, reqID, *msg.ReqID)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for subscription confirmation")
	}

	select {
	case msg := <-trades:
		require.Len(t, msg.Trades, 1)
		assert.Equal(t, "50000", msg.Trades[0].Price)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for trade frame")
	}

	server.CloseClients()
	select {
	case <-session.Done():
		assert.NoError(t, session.Err())
	case <-time.After(3 * time.Second):
		t.Fatal("session did not observe server close")
	}
	assert.False(t, session.IsConnected())
}
