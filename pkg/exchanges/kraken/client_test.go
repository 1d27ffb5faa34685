package kraken

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	options := interfaces.NewExchangeOptions()
	options.BaseURL = server.URL
	options.MaxRequestsPerSecond = 1000
	return NewClient(options)
}

func newAuthedTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	client := newTestClient(t, handler)
	client.options.APIKey = "test-key"
	client.options.APISecret = testSecret
	return client
}

func TestServerTimeDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/0/public/Time", r.URL.Path)
		io.WriteString(w, `{"error":[],"result":{"unixtime":1672531199,"rfc1123":"Sun, 01 Jan 2023 00:59:59 GMT"}}`)
	})

	serverTime, err := client.ServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1672531199), serverTime.UnixTime)
	assert.Equal(t, "Sun, 01 Jan 2023 00:59:59 GMT", serverTime.RFC1123)
}

func TestEnvelopeErrorBeatsResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// 200 OK with a populated error array must still fail.
		io.WriteString(w, `{"error":["EQuery:Unknown asset pair"],"result":{"unixtime":1}}`)
	})

	serverTime, err := client.ServerTime(context.Background())
	require.Error(t, err)
	assert.Nil(t, serverTime)

	var kerr *Error
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, CategoryGeneral, kerr.Category)
}

func TestMalformedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<!doctype html>`)
	})

	_, err := client.SystemStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envelope")
}

func TestPublicQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XBTUSD", r.URL.Query().Get("pair"))
		io.WriteString(w, `{"error":[],"result":{"XXBTZUSD":{"a":["50000.0","1","1.0"],"b":["49999.0","1","1.0"],"c":["50000.0","0.1"],"v":["100","200"],"p":["49500.0","49000.0"],"t":[10,20],"l":["48000.0","47000.0"],"h":["51000.0","52000.0"],"o":"49000.0"}}}`)
	})

	tickers, err := client.Tickers(context.Background(), "XBTUSD")
	require.NoError(t, err)
	require.Contains(t, tickers, "XXBTZUSD")
	assert.Equal(t, "50000.0", tickers["XXBTZUSD"].Ask[0])
	assert.Equal(t, int64(10), tickers["XXBTZUSD"].Trades[0])
}

func TestPrivateCallRequiresCredentials(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := client.Balance(context.Background())
	require.Error(t, err)

	var usageErr *UsageError
	require.True(t, errors.As(err, &usageErr))
	assert.Contains(t, usageErr.Reason, "API key")
	assert.True(t, errors.Is(err, interfaces.ErrAuthenticationRequired))
	assert.Zero(t, requests, "missing credentials must fail before any request is sent")
}

func TestPrivateCallSignsRequest(t *testing.T) {
	client := newAuthedTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("API-Key"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		// The signature must verify against the exact body bytes received.
		nonceValue := nonceFromBody(t, string(body))
		expected, err := Sign(testSecret, r.URL.Path, string(body), nonceValue)
		require.NoError(t, err)
		assert.Equal(t, expected, r.Header.Get("API-Sign"))

		io.WriteString(w, `{"error":[],"result":{"ZUSD":"1200.5000","XXBT":"0.2500000000"}}`)
	})

	balances, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1200.5000", balances["ZUSD"])
	assert.Equal(t, "0.2500000000", balances["XXBT"])
}

func parseFormBody(body string) (url.Values, error) {
	return url.ParseQuery(body)
}

func nonceFromBody(t *testing.T, body string) uint64 {
	t.Helper()
	values, err := parseFormBody(body)
	require.NoError(t, err)
	nonce, err := strconv.ParseUint(values.Get("nonce"), 10, 64)
	require.NoError(t, err)
	return nonce
}

func TestPrivateCallNoncesIncrease(t *testing.T) {
	var nonces []uint64
	client := newAuthedTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		nonces = append(nonces, nonceFromBody(t, string(body)))
		io.WriteString(w, `{"error":[],"result":{}}`)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Balance(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, nonces, 5)
	for i := 1; i < len(nonces); i++ {
		assert.Greater(t, nonces[i], nonces[i-1], "nonces must be strictly increasing")
	}
}

func TestPrivateCallParamsReachBody(t *testing.T) {
	client := newAuthedTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		values, err := parseFormBody(string(body))
		require.NoError(t, err)
		assert.Equal(t, "XBTUSD", values.Get("pair"))
		assert.Equal(t, "limit", values.Get("ordertype"))
		assert.NotEmpty(t, values.Get("nonce"))
		io.WriteString(w, `{"error":[],"result":{"descr":{"order":"buy 1.25 XBTUSD @ limit 37500"},"txid":["OU22CG-KLAF2-FWUDD7"]}}`)
	})

	result, err := client.AddOrder(context.Background(),
		Param{Key: "pair", Value: "XBTUSD"},
		Param{Key: "ordertype", Value: "limit"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"OU22CG-KLAF2-FWUDD7"}, result.TxID)
}

func TestPrivateCallRateLimitError(t *testing.T) {
	client := newAuthedTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":["EAPI:Rate limit exceeded"],"result":null}`)
	})

	_, err := client.WebSocketsToken(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrRateLimitExceeded))
}

func TestClientContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, `{"error":[],"result":{}}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ServerTime(ctx)
	require.Error(t, err)
}
