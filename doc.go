// Package krakenconnector provides a typed Go client for the Kraken Spot
// exchange: REST endpoints (market data, account, trading, funding, earn)
// and the v2 WebSocket streaming API.
//
// Core Features:
//
//   - Signed private REST calls (HMAC-SHA512 over SHA256(nonce+postdata))
//     with a strictly increasing nonce per client
//   - Token-bucket rate limiting shared across all REST calls of one client
//   - A streaming session over a single duplex WebSocket connection with a
//     concurrency-safe send path and a background read loop that classifies
//     inbound frames into typed messages
//   - Structured, typed errors mapped from Kraken's error strings
//
// The REST surface lives in pkg/exchanges/kraken, the streaming surface in
// pkg/exchanges/kraken/ws. Both are configured through
// interfaces.ExchangeOptions.
//
// # Standard Errors
//
// Sentinel errors shared by both surfaces are declared in
// pkg/exchanges/interfaces:
//
//   - ErrNotConnected: an operation was attempted on a session that is not open
//
//   - ErrAuthenticationRequired: a private call was made without credentials
//
//   - ErrInvalidCredentials: the configured API secret could not be used
//
//   - ErrRateLimitExceeded: Kraken reported rate-limit exhaustion
//
//   - ErrSessionClosed: the streaming session has terminated
//
// Provider-reported failures additionally carry a kraken.Error with the
// matched category (general, API, service, order, trading, rate-limit) and
// the original message strings.
//
// # Examples
//
// Basic REST usage:
//
//	options := interfaces.NewExchangeOptions().WithCredentials("your-api-key", "your-api-secret")
//	client := kraken.NewClient(options)
//
//	ctx := context.Background()
//	serverTime, err := client.ServerTime(ctx)
//	if err != nil {
//	    log.Fatalf("failed to query server time: %v", err)
//	}
//	fmt.Printf("unixtime: %d\n", serverTime.UnixTime)
//
//	balance, err := client.Balance(ctx)
//	if err != nil {
//	    var kerr *kraken.Error
//	    if errors.As(err, &kerr) {
//	        log.Fatalf("kraken rejected the call (%s): %v", kerr.Category, kerr.Messages)
//	    }
//	    log.Fatalf("balance query failed: %v", err)
//	}
//
// Streaming usage:
//
//	session, err := ws.Connect(ctx, ws.Options{
//	    Handlers: ws.Handlers{
//	        OnTicker: func(t *ws.Ticker) {
//	            fmt.Printf("%s bid=%s ask=%s\n", t.Symbol, t.BestBidPrice, t.BestAskPrice)
//	        },
//	    },
//	})
//	if err != nil {
//	    log.Fatalf("failed to open streaming session: %v", err)
//	}
//	defer session.Close()
//
//	if err := session.Subscribe(ws.TickerSubscription("BTC/USD"), nil); err != nil {
//	    log.Fatalf("subscribe failed: %v", err)
//	}
//
//	<-session.Done() // read loop terminated (close frame or read error)
//	if err := session.Err(); err != nil {
//	    log.Printf("session ended with error: %v", err)
//	}
//
// The session never reconnects on its own; callers that need a new session
// after Done() fires must dial again and re-issue their subscriptions.
package krakenconnector
