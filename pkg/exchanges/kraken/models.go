package kraken

import "encoding/json"

// Models for the spot REST API. Numeric amounts arrive as decimal strings
// and are kept as strings: converting to float silently loses precision,
// which is the caller's call to make, not ours.

// ServerTime is the result of /0/public/Time
type ServerTime struct {
	UnixTime int64  `json:"unixtime"`
	RFC1123  string `json:"rfc1123"`
}

// SystemStatus is the result of /0/public/SystemStatus
type SystemStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Asset describes a single asset from /0/public/Assets
type Asset struct {
	AssetClass      string `json:"aclass"`
	AltName         string `json:"altname"`
	Decimals        int    `json:"decimals"`
	DisplayDecimals int    `json:"display_decimals"`
}

// AssetPair describes a tradeable pair from /0/public/AssetPairs
type AssetPair struct {
	AltName           string      `json:"altname"`
	WSName            string      `json:"wsname"`
	AssetClassBase    string      `json:"aclass_base"`
	Base              string      `json:"base"`
	AssetClassQuote   string      `json:"aclass_quote"`
	Quote             string      `json:"quote"`
	Lot               string      `json:"lot"`
	PairDecimals      int         `json:"pair_decimals"`
	LotDecimals       int         `json:"lot_decimals"`
	LotMultiplier     int         `json:"lot_multiplier"`
	LeverageBuy       []int       `json:"leverage_buy"`
	LeverageSell      []int       `json:"leverage_sell"`
	Fees              [][]float64 `json:"fees"`
	FeesMaker         [][]float64 `json:"fees_maker"`
	FeeVolumeCurrency string      `json:"fee_volume_currency"`
	MarginCall        int         `json:"margin_call"`
	MarginStop        int         `json:"margin_stop"`
	OrderMin          string      `json:"ordermin"`
	CostMin           string      `json:"costmin"`
	TickSize          string      `json:"tick_size"`
	Status            string      `json:"status"`
}

// Ticker holds the level-1 snapshot for a pair from /0/public/Ticker.
// Array fields follow the exchange layout, e.g. Ask is
// [price, wholeLotVolume, lotVolume].
type Ticker struct {
	Ask       [3]string `json:"a"`
	Bid       [3]string `json:"b"`
	LastTrade [2]string `json:"c"`
	Volume    [2]string `json:"v"`
	VWAP      [2]string `json:"p"`
	Trades    [2]int64  `json:"t"`
	Low       [2]string `json:"l"`
	High      [2]string `json:"h"`
	Open      string    `json:"o"`
}

// OrderBook is the result of /0/public/Depth for a single pair. Levels
// are [price, volume, timestamp] triples.
type OrderBook struct {
	Asks [][3]json.Number `json:"asks"`
	Bids [][3]json.Number `json:"bids"`
}

// TradeBalance is the result of /0/private/TradeBalance
type TradeBalance struct {
	EquivalentBalance string `json:"eb"`
	TradeBalance      string `json:"tb"`
	MarginAmount      string `json:"m"`
	UnrealizedNet     string `json:"n"`
	CostBasis         string `json:"c"`
	FloatingValuation string `json:"v"`
	Equity            string `json:"e"`
	FreeMargin        string `json:"mf"`
	MarginLevel       string `json:"ml"`
}

// OrderDescription describes the order terms inside OrderInfo
type OrderDescription struct {
	Pair      string `json:"pair"`
	Side      string `json:"type"`
	OrderType string `json:"ordertype"`
	Price     string `json:"price"`
	Price2    string `json:"price2"`
	Leverage  string `json:"leverage"`
	Order     string `json:"order"`
	Close     string `json:"close"`
}

// OrderInfo describes a single order in open/closed order listings
type OrderInfo struct {
	RefID      string           `json:"refid"`
	UserRef    int64            `json:"userref"`
	Status     string           `json:"status"`
	OpenTime   float64          `json:"opentm"`
	StartTime  float64          `json:"starttm"`
	ExpireTime float64          `json:"expiretm"`
	Descr      OrderDescription `json:"descr"`
	Volume     string           `json:"vol"`
	VolumeExec string           `json:"vol_exec"`
	Cost       string           `json:"cost"`
	Fee        string           `json:"fee"`
	Price      string           `json:"price"`
	StopPrice  string           `json:"stopprice"`
	LimitPrice string           `json:"limitprice"`
	Misc       string           `json:"misc"`
	Flags      string           `json:"oflags"`
	Trades     []string         `json:"trades"`
	Reason     string           `json:"reason"`
}

// OpenOrders is the result of /0/private/OpenOrders
type OpenOrders struct {
	Open  map[string]OrderInfo `json:"open"`
	Count int64                `json:"count"`
}

// ClosedOrders is the result of /0/private/ClosedOrders
type ClosedOrders struct {
	Closed map[string]OrderInfo `json:"closed"`
	Count  int64                `json:"count"`
}

// TradeInfo describes a single execution
type TradeInfo struct {
	OrderTxID  string  `json:"ordertxid"`
	PosTxID    string  `json:"postxid"`
	Pair       string  `json:"pair"`
	Time       float64 `json:"time"`
	Side       string  `json:"type"`
	OrderType  string  `json:"ordertype"`
	Price      string  `json:"price"`
	Cost       string  `json:"cost"`
	Fee        string  `json:"fee"`
	Volume     string  `json:"vol"`
	Margin     string  `json:"margin"`
	Misc       string  `json:"misc"`
}

// TradesHistory is the result of /0/private/TradesHistory
type TradesHistory struct {
	Trades map[string]TradeInfo `json:"trades"`
	Count  int64                `json:"count"`
}

// PositionInfo describes an open margin position
type PositionInfo struct {
	OrderTxID    string  `json:"ordertxid"`
	Status       string  `json:"posstatus"`
	Pair         string  `json:"pair"`
	Side         string  `json:"type"`
	OrderType    string  `json:"ordertype"`
	Cost         string  `json:"cost"`
	Fee          string  `json:"fee"`
	Volume       string  `json:"vol"`
	VolumeClosed string  `json:"vol_closed"`
	CostClosed   string  `json:"cost_closed"`
	FeeClosed    string  `json:"fee_closed"`
	PLClosed     string  `json:"pl_closed"`
	Margin       string  `json:"margin"`
	Terms        string  `json:"terms"`
	RolloverTime float64 `json:"rollover_time"`
	Misc         string  `json:"misc"`
}

// LedgerInfo describes one ledger entry
type LedgerInfo struct {
	RefID   string  `json:"refid"`
	Time    float64 `json:"time"`
	Type    string  `json:"type"`
	Subtype string  `json:"subtype"`
	Class   string  `json:"aclass"`
	Asset   string  `json:"asset"`
	Amount  string  `json:"amount"`
	Fee     string  `json:"fee"`
	Balance string  `json:"balance"`
}

// Ledgers is the result of /0/private/Ledgers
type Ledgers struct {
	Ledger map[string]LedgerInfo `json:"ledger"`
	Count  int64                 `json:"count"`
}

// FeeInfo describes the fee tier for one pair
type FeeInfo struct {
	Fee        string `json:"fee"`
	MinFee     string `json:"minfee"`
	MaxFee     string `json:"maxfee"`
	NextFee    string `json:"nextfee"`
	NextVolume string `json:"nextvolume"`
	TierVolume string `json:"tier_volume"`
}

// TradeVolume is the result of /0/private/TradeVolume
type TradeVolume struct {
	Currency  string             `json:"currency"`
	Volume    string             `json:"volume"`
	Fees      map[string]FeeInfo `json:"fees"`
	FeesMaker map[string]FeeInfo `json:"fees_maker"`
}

// ExportRequest is the result of /0/private/ExportTrades
type ExportRequest struct {
	ID    string `json:"id"`
	Descr string `json:"descr"`
}

// ExportReportStatus describes one report from /0/private/ExportStatus
type ExportReportStatus struct {
	ID          string  `json:"id"`
	Report      string  `json:"report"`
	Format      string  `json:"format"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedTime float64 `json:"createdtm"`
	FinishTime  float64 `json:"finishtm"`
	StartTime   float64 `json:"starttm"`
	TotalRows   int64   `json:"totalrows"`
	RefID       string  `json:"refid"`
}

// RetrieveExport is the result of /0/private/RetrieveExport
type RetrieveExport struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// DeleteExport is the result of /0/private/DeleteExport
type DeleteExport struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AddOrderDescr is the human-readable confirmation of a placed order
type AddOrderDescr struct {
	Order string `json:"order"`
	Close string `json:"close"`
}

// AddOrderResult is the result of /0/private/AddOrder
type AddOrderResult struct {
	Descr AddOrderDescr `json:"descr"`
	TxID  []string      `json:"txid"`
}

// AddOrderBatchItem is one entry in an AddOrderBatch result
type AddOrderBatchItem struct {
	Descr string   `json:"descr"`
	TxID  []string `json:"txid"`
	Error string   `json:"error"`
}

// AddOrderBatchResult is the result of /0/private/AddOrderBatch
type AddOrderBatchResult struct {
	Results []AddOrderBatchItem `json:"results"`
}

// AmendOrderResult is the result of /0/private/AmendOrder
type AmendOrderResult struct {
	Count   int            `json:"count"`
	Pending bool           `json:"pending"`
	Descr   *AddOrderDescr `json:"descr"`
}

// EditOrderResult is the result of /0/private/EditOrder
type EditOrderResult struct {
	Count   int            `json:"count"`
	Pending bool           `json:"pending"`
	Descr   *AddOrderDescr `json:"descr"`
}

// CancelOrderResult is the result of /0/private/CancelOrder
type CancelOrderResult struct {
	Count   int  `json:"count"`
	Pending bool `json:"pending"`
}

// CancelAllResult is the result of /0/private/CancelAll
type CancelAllResult struct {
	Count int `json:"count"`
}

// CancelAllAfterResult is the result of /0/private/CancelAllOrdersAfter
type CancelAllAfterResult struct {
	CurrentTime string `json:"currentTime"`
	TriggerTime string `json:"triggerTime"`
}

// CancelOrderBatchResult is the result of /0/private/CancelOrderBatch
type CancelOrderBatchResult struct {
	Results []CancelOrderResult `json:"results"`
}

// WebSocketsToken is the result of /0/private/GetWebSocketsToken. The
// token authenticates private stream subscriptions and expires after the
// given number of seconds if unused.
type WebSocketsToken struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// DepositMethod describes one deposit method
type DepositMethod struct {
	Method     string `json:"method"`
	Limit      bool   `json:"limit"`
	Fee        string `json:"fee"`
	GenAddress bool   `json:"gen-address"`
}

// DepositAddress describes one deposit address
type DepositAddress struct {
	Address    string `json:"address"`
	ExpireTime string `json:"expiretm"`
	New        bool   `json:"new"`
	QRCode     string `json:"qr_code"`
}

// DepositStatus describes one deposit in progress
type DepositStatus struct {
	Status  string `json:"status"`
	TxID    string `json:"txid"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Fee     string `json:"fee"`
	Time    int64  `json:"time"`
}

// WithdrawalMethod describes one withdrawal method
type WithdrawalMethod struct {
	Method     string `json:"method"`
	Limit      bool   `json:"limit"`
	Fee        string `json:"fee"`
	GenAddress bool   `json:"gen-address"`
}

// WithdrawalAddress describes one registered withdrawal address
type WithdrawalAddress struct {
	Address string `json:"address"`
	New     bool   `json:"new"`
	Name    string `json:"name"`
	Fee     string `json:"fee"`
}

// WithdrawalInformation is the result of /0/private/WithdrawalInformation
type WithdrawalInformation struct {
	Method string `json:"method"`
	Limit  string `json:"limit"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
}

// WithdrawResult is the result of /0/private/Withdraw
type WithdrawResult struct {
	RefID string `json:"refid"`
}

// WithdrawalStatus describes one withdrawal in progress
type WithdrawalStatus struct {
	Method string `json:"method"`
	Class  string `json:"aclass"`
	Asset  string `json:"asset"`
	RefID  string `json:"refid"`
	TxID   string `json:"txid"`
	Info   string `json:"info"`
	Amount string `json:"amount"`
	Status string `json:"status"`
	Fee    string `json:"fee"`
	Time   int64  `json:"time"`
}

// WithdrawCancelResult is the result of /0/private/WithdrawCancel
type WithdrawCancelResult struct {
	RefID  string `json:"refid"`
	Result bool   `json:"result"`
}

// WalletTransferResult is the result of /0/private/WalletTransfer
type WalletTransferResult struct {
	RefID  string `json:"refid"`
	Result string `json:"result"`
}

// CreateSubaccountResult is the result of /0/private/CreateSubaccount
type CreateSubaccountResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccountTransferResult is the result of /0/private/AccountTransfer
type AccountTransferResult struct {
	RefID  string `json:"refid"`
	Status string `json:"status"`
	TxID   string `json:"txid"`
}

// StakeResult is the result of /0/private/Staking/Stake and Unstake
type StakeResult struct {
	TxID   string `json:"txid"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Method string `json:"method"`
}

// StakeStatusItem describes one pending staking transaction
type StakeStatusItem struct {
	TxID   string `json:"txid"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

// StakeStatus is the result of the staking status endpoints
type StakeStatus struct {
	Status []StakeStatusItem `json:"status"`
}

// StakingProduct describes one available staking product
type StakingProduct struct {
	Asset     string `json:"asset"`
	Title     string `json:"title"`
	APY       string `json:"apy"`
	Method    string `json:"method"`
	MinAmount string `json:"min_amount"`
	MaxAmount string `json:"max_amount"`
	LockTime  int64  `json:"lock_time"`
	Interval  string `json:"interval"`
}

// StakingProducts is the result of /0/private/Staking/ListStakingProducts
type StakingProducts struct {
	Products []StakingProduct `json:"products"`
}

// StakingTransaction describes one staking ledger entry
type StakingTransaction struct {
	TxID   string `json:"txid"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Method string `json:"method"`
	Status string `json:"status"`
	Time   int64  `json:"time"`
	Reward string `json:"reward"`
}

// StakingTransactions is the result of /0/private/Staking/ListStakingTransactions
type StakingTransactions struct {
	Transactions []StakingTransaction `json:"transactions"`
}
