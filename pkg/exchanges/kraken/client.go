package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/veiloq/kraken-connector/pkg/common"
	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
	"github.com/veiloq/kraken-connector/pkg/logging"
	"github.com/veiloq/kraken-connector/pkg/ratelimit"
)

// DefaultBaseURL is the production REST endpoint
const DefaultBaseURL = "https://api.kraken.com"

// envelope is the standard response wrapper: when the error array is
// empty, result carries the payload; otherwise result is ignored and the
// error array is classified.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// Client is a rate-limited client for the spot REST API. Public endpoints
// work without credentials; private endpoints sign each request with the
// key pair from the options and fail up front when it is missing.
//
// A Client is safe for concurrent use. Each call consumes one rate-limit
// token before any bytes are sent and is attempted exactly once.
type Client struct {
	options *interfaces.ExchangeOptions
	http    common.HTTPClient
	baseURL string
	nonces  nonceSource
	logger  logging.Logger
}

// NewClient creates a REST client from the given options. Nil options get
// the defaults from interfaces.NewExchangeOptions.
func NewClient(options *interfaces.ExchangeOptions) *Client {
	if options == nil {
		options = interfaces.NewExchangeOptions()
	}

	logger := logging.NewZapLogger(
		logging.WithLogLevel(logging.ParseLevel(options.LogLevel)),
	)

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := common.NewHTTPClient(&common.ClientConfig{
		Timeout: options.HTTPTimeout,
		RateLimit: ratelimit.Rate{
			Limit:    options.MaxRequestsPerSecond,
			Interval: time.Second,
			Burst:    options.Burst,
		},
		Logger: logger,
	})

	return &Client{
		options: options,
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

// NewClientWithHTTP creates a client over a caller-supplied HTTP client,
// used by tests and by callers that want the debug client.
func NewClientWithHTTP(options *interfaces.ExchangeOptions, httpClient common.HTTPClient) *Client {
	client := NewClient(options)
	client.http = httpClient
	return client
}

// decode parses the response envelope and unmarshals the result into out.
// A non-empty error array takes precedence over the result, whatever the
// HTTP status was.
func decode(body io.Reader, out interface{}) error {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if len(env.Error) > 0 {
		return ClassifyMessages(env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("failed to decode result payload: %w", err)
	}
	return nil
}

// publicGet performs a public GET request and decodes the result into out
func (c *Client) publicGet(ctx context.Context, path string, params []Param, out interface{}) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		query := url.Values{}
		for _, p := range params {
			query.Set(p.Key, p.Value)
		}
		requestURL += "?" + query.Encode()
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, requestURL)
	if err != nil {
		return interfaces.NewRequestError(path, "request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("public call",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)),
	)

	return decode(resp.Body, out)
}

// privatePost performs a signed POST request and decodes the result into
// out. The nonce is issued and the signature computed immediately before
// the request is handed to the rate-limited HTTP client.
func (c *Client) privatePost(ctx context.Context, path string, params []Param, out interface{}) error {
	if c.options.APIKey == "" {
		return &UsageError{Reason: "API key not set", Err: interfaces.ErrAuthenticationRequired}
	}
	if c.options.APISecret == "" {
		return &UsageError{Reason: "API secret not set", Err: interfaces.ErrAuthenticationRequired}
	}

	nonce := c.nonces.next()
	form := make([]Param, 0, len(params)+1)
	form = append(form, Param{Key: "nonce", Value: strconv.FormatUint(nonce, 10)})
	form = append(form, params...)

	postdata := encodeForm(form)
	signature, err := Sign(c.options.APISecret, path, postdata, nonce)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("API-Key", c.options.APIKey)
	header.Set("API-Sign", signature)

	start := time.Now()
	resp, err := c.http.PostForm(ctx, c.baseURL+path, postdata, header)
	if err != nil {
		return interfaces.NewRequestError(path, "request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("private call",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Uint64("nonce", nonce),
		logging.Duration("duration", time.Since(start)),
	)

	return decode(resp.Body, out)
}

// ---------------------------------------------------------------------------
// Public endpoints (market data)
// ---------------------------------------------------------------------------

// ServerTime calls GET /0/public/Time
func (c *Client) ServerTime(ctx context.Context) (*ServerTime, error) {
	var out ServerTime
	if err := c.publicGet(ctx, "/0/public/Time", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemStatus calls GET /0/public/SystemStatus
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.publicGet(ctx, "/0/public/SystemStatus", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assets calls GET /0/public/Assets. The result maps asset code to info.
func (c *Client) Assets(ctx context.Context, params ...Param) (map[string]Asset, error) {
	out := map[string]Asset{}
	if err := c.publicGet(ctx, "/0/public/Assets", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssetPairs calls GET /0/public/AssetPairs. The result maps pair name to info.
func (c *Client) AssetPairs(ctx context.Context, params ...Param) (map[string]AssetPair, error) {
	out := map[string]AssetPair{}
	if err := c.publicGet(ctx, "/0/public/AssetPairs", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tickers calls GET /0/public/Ticker for the given pair(s). The result
// maps pair name to its ticker snapshot.
func (c *Client) Tickers(ctx context.Context, pair string) (map[string]Ticker, error) {
	out := map[string]Ticker{}
	params := []Param{{Key: "pair", Value: pair}}
	if err := c.publicGet(ctx, "/0/public/Ticker", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OHLC calls GET /0/public/OHLC. Candle rows keep their raw exchange
// layout of [time, open, high, low, close, vwap, volume, count]; the
// trailing "last" cursor rides along as a bare number.
func (c *Client) OHLC(ctx context.Context, params ...Param) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := c.publicGet(ctx, "/0/public/OHLC", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Depth calls GET /0/public/Depth. The result maps pair name to its book.
func (c *Client) Depth(ctx context.Context, params ...Param) (map[string]OrderBook, error) {
	out := map[string]OrderBook{}
	if err := c.publicGet(ctx, "/0/public/Depth", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentTrades calls GET /0/public/Trades
func (c *Client) RecentTrades(ctx context.Context, params ...Param) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := c.publicGet(ctx, "/0/public/Trades", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentSpreads calls GET /0/public/Spread
func (c *Client) RecentSpreads(ctx context.Context, params ...Param) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := c.publicGet(ctx, "/0/public/Spread", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Private endpoints (account data)
// ---------------------------------------------------------------------------

// Balance calls POST /0/private/Balance. The result maps asset code to a
// decimal balance string.
func (c *Client) Balance(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.privatePost(ctx, "/0/private/Balance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtendedBalance calls POST /0/private/BalanceEx
func (c *Client) ExtendedBalance(ctx context.Context) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := c.privatePost(ctx, "/0/private/BalanceEx", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradeBalance calls POST /0/private/TradeBalance
func (c *Client) TradeBalance(ctx context.Context, params ...Param) (*TradeBalance, error) {
	var out TradeBalance
	if err := c.privatePost(ctx, "/0/private/TradeBalance", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OpenOrders calls POST /0/private/OpenOrders
func (c *Client) OpenOrders(ctx context.Context, params ...Param) (*OpenOrders, error) {
	var out OpenOrders
	if err := c.privatePost(ctx, "/0/private/OpenOrders", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClosedOrders calls POST /0/private/ClosedOrders
func (c *Client) ClosedOrders(ctx context.Context, params ...Param) (*ClosedOrders, error) {
	var out ClosedOrders
	if err := c.privatePost(ctx, "/0/private/ClosedOrders", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryOrders calls POST /0/private/QueryOrders. The result maps order
// transaction ID to order info.
func (c *Client) QueryOrders(ctx context.Context, params ...Param) (map[string]OrderInfo, error) {
	out := map[string]OrderInfo{}
	if err := c.privatePost(ctx, "/0/private/QueryOrders", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradesHistory calls POST /0/private/TradesHistory
func (c *Client) TradesHistory(ctx context.Context, params ...Param) (*TradesHistory, error) {
	var out TradesHistory
	if err := c.privatePost(ctx, "/0/private/TradesHistory", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryTrades calls POST /0/private/QueryTrades
func (c *Client) QueryTrades(ctx context.Context, params ...Param) (map[string]TradeInfo, error) {
	out := map[string]TradeInfo{}
	if err := c.privatePost(ctx, "/0/private/QueryTrades", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenPositions calls POST /0/private/OpenPositions
func (c *Client) OpenPositions(ctx context.Context, params ...Param) (map[string]PositionInfo, error) {
	out := map[string]PositionInfo{}
	if err := c.privatePost(ctx, "/0/private/OpenPositions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ledgers calls POST /0/private/Ledgers
func (c *Client) Ledgers(ctx context.Context, params ...Param) (*Ledgers, error) {
	var out Ledgers
	if err := c.privatePost(ctx, "/0/private/Ledgers", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryLedgers calls POST /0/private/QueryLedgers
func (c *Client) QueryLedgers(ctx context.Context, params ...Param) (map[string]LedgerInfo, error) {
	out := map[string]LedgerInfo{}
	if err := c.privatePost(ctx, "/0/private/QueryLedgers", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradeVolume calls POST /0/private/TradeVolume
func (c *Client) TradeVolume(ctx context.Context, params ...Param) (*TradeVolume, error) {
	var out TradeVolume
	if err := c.privatePost(ctx, "/0/private/TradeVolume", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestExport calls POST /0/private/ExportTrades
func (c *Client) RequestExport(ctx context.Context, params ...Param) (*ExportRequest, error) {
	var out ExportRequest
	if err := c.privatePost(ctx, "/0/private/ExportTrades", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportStatus calls POST /0/private/ExportStatus
func (c *Client) ExportStatus(ctx context.Context, params ...Param) ([]ExportReportStatus, error) {
	var out struct {
		Reports []ExportReportStatus `json:"reports"`
	}
	if err := c.privatePost(ctx, "/0/private/ExportStatus", params, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// RetrieveExport calls POST /0/private/RetrieveExport
func (c *Client) RetrieveExport(ctx context.Context, params ...Param) (*RetrieveExport, error) {
	var out RetrieveExport
	if err := c.privatePost(ctx, "/0/private/RetrieveExport", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExport calls POST /0/private/DeleteExport
func (c *Client) DeleteExport(ctx context.Context, params ...Param) (*DeleteExport, error) {
	var out DeleteExport
	if err := c.privatePost(ctx, "/0/private/DeleteExport", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Trading
// ---------------------------------------------------------------------------

// AddOrder calls POST /0/private/AddOrder
func (c *Client) AddOrder(ctx context.Context, params ...Param) (*AddOrderResult, error) {
	var out AddOrderResult
	if err := c.privatePost(ctx, "/0/private/AddOrder", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddOrderBatch calls POST /0/private/AddOrderBatch
func (c *Client) AddOrderBatch(ctx context.Context, params ...Param) (*AddOrderBatchResult, error) {
	var out AddOrderBatchResult
	if err := c.privatePost(ctx, "/0/private/AddOrderBatch", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AmendOrder calls POST /0/private/AmendOrder
func (c *Client) AmendOrder(ctx context.Context, params ...Param) (*AmendOrderResult, error) {
	var out AmendOrderResult
	if err := c.privatePost(ctx, "/0/private/AmendOrder", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditOrder calls POST /0/private/EditOrder
func (c *Client) EditOrder(ctx context.Context, params ...Param) (*EditOrderResult, error) {
	var out EditOrderResult
	if err := c.privatePost(ctx, "/0/private/EditOrder", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder calls POST /0/private/CancelOrder
func (c *Client) CancelOrder(ctx context.Context, params ...Param) (*CancelOrderResult, error) {
	var out CancelOrderResult
	if err := c.privatePost(ctx, "/0/private/CancelOrder", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAll calls POST /0/private/CancelAll
func (c *Client) CancelAll(ctx context.Context) (*CancelAllResult, error) {
	var out CancelAllResult
	if err := c.privatePost(ctx, "/0/private/CancelAll", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAllAfter calls POST /0/private/CancelAllOrdersAfter
func (c *Client) CancelAllAfter(ctx context.Context, params ...Param) (*CancelAllAfterResult, error) {
	var out CancelAllAfterResult
	if err := c.privatePost(ctx, "/0/private/CancelAllOrdersAfter", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrderBatch calls POST /0/private/CancelOrderBatch
func (c *Client) CancelOrderBatch(ctx context.Context, params ...Param) (*CancelOrderBatchResult, error) {
	var out CancelOrderBatchResult
	if err := c.privatePost(ctx, "/0/private/CancelOrderBatch", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WebSocketsToken calls POST /0/private/GetWebSocketsToken. The token is
// passed to a stream session's Authorize call to enable private channels.
func (c *Client) WebSocketsToken(ctx context.Context) (*WebSocketsToken, error) {
	var out WebSocketsToken
	if err := c.privatePost(ctx, "/0/private/GetWebSocketsToken", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Funding
// ---------------------------------------------------------------------------

// DepositMethods calls POST /0/private/DepositMethods
func (c *Client) DepositMethods(ctx context.Context, params ...Param) ([]DepositMethod, error) {
	var out []DepositMethod
	if err := c.privatePost(ctx, "/0/private/DepositMethods", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DepositAddresses calls POST /0/private/DepositAddresses
func (c *Client) DepositAddresses(ctx context.Context, params ...Param) ([]DepositAddress, error) {
	var out []DepositAddress
	if err := c.privatePost(ctx, "/0/private/DepositAddresses", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DepositStatus calls POST /0/private/DepositStatus
func (c *Client) DepositStatus(ctx context.Context, params ...Param) ([]DepositStatus, error) {
	var out []DepositStatus
	if err := c.privatePost(ctx, "/0/private/DepositStatus", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawalMethods calls POST /0/private/WithdrawalMethods
func (c *Client) WithdrawalMethods(ctx context.Context, params ...Param) ([]WithdrawalMethod, error) {
	var out []WithdrawalMethod
	if err := c.privatePost(ctx, "/0/private/WithdrawalMethods", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawalAddresses calls POST /0/private/WithdrawalAddresses
func (c *Client) WithdrawalAddresses(ctx context.Context, params ...Param) ([]WithdrawalAddress, error) {
	var out []WithdrawalAddress
	if err := c.privatePost(ctx, "/0/private/WithdrawalAddresses", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawalInformation calls POST /0/private/WithdrawalInformation
func (c *Client) WithdrawalInformation(ctx context.Context, params ...Param) (*WithdrawalInformation, error) {
	var out WithdrawalInformation
	if err := c.privatePost(ctx, "/0/private/WithdrawalInformation", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Withdraw calls POST /0/private/Withdraw
func (c *Client) Withdraw(ctx context.Context, params ...Param) (*WithdrawResult, error) {
	var out WithdrawResult
	if err := c.privatePost(ctx, "/0/private/Withdraw", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawStatus calls POST /0/private/WithdrawStatus
func (c *Client) WithdrawStatus(ctx context.Context, params ...Param) ([]WithdrawalStatus, error) {
	var out []WithdrawalStatus
	if err := c.privatePost(ctx, "/0/private/WithdrawStatus", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawCancel calls POST /0/private/WithdrawCancel
func (c *Client) WithdrawCancel(ctx context.Context, params ...Param) (*WithdrawCancelResult, error) {
	var out WithdrawCancelResult
	if err := c.privatePost(ctx, "/0/private/WithdrawCancel", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WalletTransfer calls POST /0/private/WalletTransfer
func (c *Client) WalletTransfer(ctx context.Context, params ...Param) (*WalletTransferResult, error) {
	var out WalletTransferResult
	if err := c.privatePost(ctx, "/0/private/WalletTransfer", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Subaccounts
// ---------------------------------------------------------------------------

// CreateSubaccount calls POST /0/private/CreateSubaccount
func (c *Client) CreateSubaccount(ctx context.Context, params ...Param) (*CreateSubaccountResult, error) {
	var out CreateSubaccountResult
	if err := c.privatePost(ctx, "/0/private/CreateSubaccount", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountTransfer calls POST /0/private/AccountTransfer
func (c *Client) AccountTransfer(ctx context.Context, params ...Param) (*AccountTransferResult, error) {
	var out AccountTransferResult
	if err := c.privatePost(ctx, "/0/private/AccountTransfer", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Staking
// ---------------------------------------------------------------------------

// Stake calls POST /0/private/Staking/Stake
func (c *Client) Stake(ctx context.Context, params ...Param) (*StakeResult, error) {
	var out StakeResult
	if err := c.privatePost(ctx, "/0/private/Staking/Stake", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unstake calls POST /0/private/Staking/Unstake
func (c *Client) Unstake(ctx context.Context, params ...Param) (*StakeResult, error) {
	var out StakeResult
	if err := c.privatePost(ctx, "/0/private/Staking/Unstake", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StakeStatus calls POST /0/private/Staking/GetStakeStatus
func (c *Client) StakeStatus(ctx context.Context) (*StakeStatus, error) {
	var out StakeStatus
	if err := c.privatePost(ctx, "/0/private/Staking/GetStakeStatus", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnstakeStatus calls POST /0/private/Staking/GetUnstakeStatus
func (c *Client) UnstakeStatus(ctx context.Context) (*StakeStatus, error) {
	var out StakeStatus
	if err := c.privatePost(ctx, "/0/private/Staking/GetUnstakeStatus", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StakingProducts calls POST /0/private/Staking/ListStakingProducts
func (c *Client) StakingProducts(ctx context.Context) (*StakingProducts, error) {
	var out StakingProducts
	if err := c.privatePost(ctx, "/0/private/Staking/ListStakingProducts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StakingTransactions calls POST /0/private/Staking/ListStakingTransactions
func (c *Client) StakingTransactions(ctx context.Context) (*StakingTransactions, error) {
	var out StakingTransactions
	if err := c.privatePost(ctx, "/0/private/Staking/ListStakingTransactions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
