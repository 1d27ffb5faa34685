package kraken

import (
	"fmt"
	"strings"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

// Category is the coarse classification of an exchange-reported error,
// derived from the error code prefixes documented by Kraken.
type Category int

const (
	// CategoryNone means the exchange reported failure without any message
	CategoryNone Category = iota

	// CategoryGeneral covers EGeneral, EQuery, EMarket, EData and EFunding codes
	CategoryGeneral

	// CategoryAPI covers EAPI codes (bad key, bad signature, bad nonce)
	CategoryAPI

	// CategoryService covers EService codes (exchange unavailable, busy)
	CategoryService

	// CategoryOrder covers EOrder codes (rejected or unknown orders)
	CategoryOrder

	// CategoryTrading covers ETrade codes
	CategoryTrading

	// CategoryRateLimit covers any message mentioning a rate limit breach
	CategoryRateLimit

	// CategoryUnknown means no message matched a known code prefix
	CategoryUnknown
)

// String implements fmt.Stringer
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryGeneral:
		return "general"
	case CategoryAPI:
		return "api"
	case CategoryService:
		return "service"
	case CategoryOrder:
		return "order"
	case CategoryTrading:
		return "trading"
	case CategoryRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// Error is a failure reported by the exchange in the envelope's error
// array. Message holds the matched message for classified categories, or
// every reported message for CategoryUnknown and CategoryNone.
type Error struct {
	Category Category
	Messages []string
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Category {
	case CategoryNone:
		return "kraken returned an error without a message"
	case CategoryUnknown:
		return fmt.Sprintf("kraken returned error(s): %v", e.Messages)
	default:
		return fmt.Sprintf("kraken %s error: %s", e.Category, e.Messages[0])
	}
}

// Unwrap maps rate-limit and service categories onto the shared sentinel
// errors so callers can match with errors.Is.
func (e *Error) Unwrap() error {
	switch e.Category {
	case CategoryRateLimit:
		return interfaces.ErrRateLimitExceeded
	case CategoryService:
		return interfaces.ErrExchangeUnavailable
	default:
		return nil
	}
}

// generalPrefixes all classify as CategoryGeneral
var generalPrefixes = []string{"EGeneral:", "EQuery:", "EMarket:", "EData:", "EFunding:"}

// classifyMessage matches a single message against the known code
// patterns. The rate-limit check runs first: rate-limit messages carry an
// EAPI or EOrder prefix and would otherwise land in the wrong category.
func classifyMessage(message string) Category {
	if strings.Contains(message, "Rate limit exceeded") {
		return CategoryRateLimit
	}
	if strings.HasPrefix(message, "EAPI:") {
		return CategoryAPI
	}
	if strings.HasPrefix(message, "EService:") {
		return CategoryService
	}
	if strings.HasPrefix(message, "EOrder:") {
		return CategoryOrder
	}
	if strings.HasPrefix(message, "ETrade:") {
		return CategoryTrading
	}
	for _, prefix := range generalPrefixes {
		if strings.HasPrefix(message, prefix) {
			return CategoryGeneral
		}
	}
	return CategoryUnknown
}

// ClassifyMessages converts a non-empty envelope error array into a typed
// error. Messages are scanned in order and the first one matching a known
// pattern decides the category; when none match, the whole array is kept
// under CategoryUnknown.
func ClassifyMessages(messages []string) *Error {
	if len(messages) == 0 {
		return &Error{Category: CategoryNone}
	}

	for _, message := range messages {
		if category := classifyMessage(message); category != CategoryUnknown {
			return &Error{Category: category, Messages: []string{message}}
		}
	}

	return &Error{Category: CategoryUnknown, Messages: messages}
}

// UsageError reports client misuse detected before any request leaves the
// process: missing credentials, an undecodable secret, bad parameters.
type UsageError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid usage: %s", e.Reason)
}

// Unwrap returns the underlying sentinel error, if any
func (e *UsageError) Unwrap() error {
	return e.Err
}
