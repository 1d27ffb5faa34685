package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	"github.com/joho/godotenv"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
	"github.com/veiloq/kraken-connector/pkg/exchanges/kraken"
	"github.com/veiloq/kraken-connector/pkg/exchanges/kraken/ws"
	"github.com/veiloq/kraken-connector/pkg/logging"
)

func main() {
	// Create logger
	logger := logging.NewLogger()
	logger.SetLevel(logging.DEBUG)

	// Load credentials from .env if present (optional for public endpoints)
	_ = godotenv.Load()

	// Create exchange options
	options := interfaces.NewExchangeOptions().
		WithCredentials(os.Getenv("KRAKEN_API_KEY"), os.Getenv("KRAKEN_API_SECRET"))
	options.LogLevel = "debug"

	// Create REST client
	client := kraken.NewClient(options)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fetch server time, retrying transient failures at this outer layer
	logger.Info("fetching server time")
	var serverTime *kraken.ServerTime
	err := retry.Do(
		func() error {
			var err error
			serverTime, err = client.ServerTime(ctx)
			return err
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		logger.Error("failed to get server time", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server time",
		logging.Uint64("unixtime", uint64(serverTime.UnixTime)),
		logging.String("rfc1123", serverTime.RFC1123),
	)

	// Fetch a ticker snapshot over REST
	logger.Info("fetching ticker")
	tickers, err := client.Tickers(ctx, "XBTUSD")
	if err != nil {
		logger.Error("failed to get ticker", logging.Error(err))
		os.Exit(1)
	}
	for pair, ticker := range tickers {
		logger.Info("ticker snapshot",
			logging.String("pair", pair),
			logging.String("last_price", ticker.LastTrade[0]),
			logging.String("24h_volume", ticker.Volume[1]),
		)
	}

	// Open a stream session for real-time updates
	logger.Info("connecting to stream")
	session, err := ws.Connect(ctx, ws.Options{
		Logger: logger,
		Handlers: ws.Handlers{
			OnSystemStatus: func(status *ws.SystemStatus) {
				logger.Info("system status",
					logging.String("status", status.Status),
					logging.String("version", status.Version),
				)
			},
			OnSubscriptionStatus: func(status *ws.SubscriptionStatus) {
				logger.Info("subscription status",
					logging.String("channel", status.Channel),
					logging.String("status", status.Status),
				)
			},
			OnTicker: func(ticker *ws.Ticker) {
				logger.Info("ticker update",
					logging.String("symbol", ticker.Symbol),
					logging.String("last_price", ticker.LastTradePrice),
					logging.String("24h_volume", ticker.Volume24h),
				)
			},
			OnTrades: func(trades *ws.Trades) {
				for _, trade := range trades.Trades {
					logger.Info("trade",
						logging.String("symbol", trades.Symbol),
						logging.String("side", trade.Side),
						logging.String("price", trade.Price),
					)
				}
			},
		},
	})
	if err != nil {
		logger.Error("failed to connect to stream", logging.Error(err))
		os.Exit(1)
	}
	defer session.Close()

	// Subscribe to real-time tickers and trades
	logger.Info("subscribing to ticker and trade updates")
	if err := session.Subscribe(ws.TickerSubscription("BTC/USD"), nil); err != nil {
		logger.Error("failed to subscribe to ticker", logging.Error(err))
		os.Exit(1)
	}
	if err := session.Subscribe(ws.TradesSubscription("BTC/USD"), nil); err != nil {
		logger.Error("failed to subscribe to trades", logging.Error(err))
		os.Exit(1)
	}

	// Wait for interrupt signal or session end
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("running... press Ctrl+C to exit")
	select {
	case <-sigChan:
		logger.Info("shutting down")
	case <-session.Done():
		if err := session.Err(); err != nil {
			logger.Error("stream ended", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("stream closed")
	}
}
