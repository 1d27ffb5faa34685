package kraken

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

func TestClassifyMessagesCategories(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     Category
	}{
		{"api", []string{"EAPI:Invalid key"}, CategoryAPI},
		{"general", []string{"EGeneral:Invalid arguments"}, CategoryGeneral},
		{"query", []string{"EQuery:Unknown asset pair"}, CategoryGeneral},
		{"market", []string{"EMarket:Not available"}, CategoryGeneral},
		{"data", []string{"EData:Internal error"}, CategoryGeneral},
		{"funding", []string{"EFunding:Unknown withdraw key"}, CategoryGeneral},
		{"service", []string{"EService:Unavailable"}, CategoryService},
		{"order", []string{"EOrder:Insufficient funds"}, CategoryOrder},
		{"trading", []string{"ETrade:Locked"}, CategoryTrading},
		{"rate limit api", []string{"EAPI:Rate limit exceeded"}, CategoryRateLimit},
		{"rate limit order", []string{"EOrder:Rate limit exceeded"}, CategoryRateLimit},
		{"unknown", []string{"something unexpected"}, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyMessages(tt.messages)
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Category)
		})
	}
}

func TestClassifyMessagesFirstMatchWins(t *testing.T) {
	// The first message carrying a known code decides the category even
	// when a later message would rank differently.
	err := ClassifyMessages([]string{"EGeneral:Unknown error", "EAPI:Rate limit exceeded"})
	assert.Equal(t, CategoryGeneral, err.Category)
	assert.Equal(t, []string{"EGeneral:Unknown error"}, err.Messages)

	// An unclassifiable leading message is skipped in favour of a later
	// match.
	err = ClassifyMessages([]string{"noise", "EOrder:Unknown order"})
	assert.Equal(t, CategoryOrder, err.Category)
	assert.Equal(t, []string{"EOrder:Unknown order"}, err.Messages)
}

func TestClassifyMessagesUnknownKeepsAll(t *testing.T) {
	messages := []string{"first oddity", "second oddity"}
	err := ClassifyMessages(messages)
	assert.Equal(t, CategoryUnknown, err.Category)
	assert.Equal(t, messages, err.Messages)
	assert.Contains(t, err.Error(), "first oddity")
}

func TestClassifyMessagesEmpty(t *testing.T) {
	err := ClassifyMessages(nil)
	assert.Equal(t, CategoryNone, err.Category)
	assert.NotEmpty(t, err.Error())
}

func TestErrorUnwrapSentinels(t *testing.T) {
	rateLimited := ClassifyMessages([]string{"EAPI:Rate limit exceeded"})
	assert.True(t, errors.Is(rateLimited, interfaces.ErrRateLimitExceeded))

	unavailable := ClassifyMessages([]string{"EService:Unavailable"})
	assert.True(t, errors.Is(unavailable, interfaces.ErrExchangeUnavailable))

	plain := ClassifyMessages([]string{"EOrder:Unknown order"})
	assert.False(t, errors.Is(plain, interfaces.ErrRateLimitExceeded))
}

func TestUsageError(t *testing.T) {
	err := &UsageError{Reason: "API key not set", Err: interfaces.ErrAuthenticationRequired}
	assert.Contains(t, err.Error(), "API key not set")
	assert.True(t, errors.Is(err, interfaces.ErrAuthenticationRequired))
}
