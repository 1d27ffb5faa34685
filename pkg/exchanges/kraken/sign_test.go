package kraken

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

// Test vector from the exchange's API documentation.
const (
	testSecret   = "kQH5HW/8p1uGOVjbgWA7FunAmGO8lsSUXNsu3eow76sz84Q18fWxnyRzBHCd3pd5nE9qa99HAZtuZuj6F1huXg=="
	testPath     = "/0/private/AddOrder"
	testNonce    = uint64(1616492376594)
	testPostdata = "nonce=1616492376594&ordertype=limit&pair=XBTUSD&price=37500&type=buy&volume=1.25"
	testSig      = "4/dpxb3iT4tp/ZCVEwSnEsLxx0bqyhLpdfOpc6fn7OR8+UClSV5n9E6aSS8MPtnRfp32bAb0nmbRn6H8ndwLUQ=="
)

func TestSignKnownVector(t *testing.T) {
	sig, err := Sign(testSecret, testPath, testPostdata, testNonce)
	require.NoError(t, err)
	assert.Equal(t, testSig, sig)
}

func TestSignDeterministic(t *testing.T) {
	first, err := Sign(testSecret, testPath, testPostdata, testNonce)
	require.NoError(t, err)
	second, err := Sign(testSecret, testPath, testPostdata, testNonce)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignSensitivity(t *testing.T) {
	base, err := Sign(testSecret, testPath, testPostdata, testNonce)
	require.NoError(t, err)

	differentNonce, err := Sign(testSecret, testPath, testPostdata, testNonce+1)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentNonce)

	differentPath, err := Sign(testSecret, "/0/private/Balance", testPostdata, testNonce)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentPath)

	differentBody, err := Sign(testSecret, testPath, testPostdata+"&validate=true", testNonce)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentBody)
}

func TestSignBadSecret(t *testing.T) {
	_, err := Sign("not valid base64!!!", testPath, testPostdata, testNonce)
	require.Error(t, err)

	var usageErr *UsageError
	require.True(t, errors.As(err, &usageErr))
	assert.Contains(t, usageErr.Reason, "base64")
	assert.True(t, errors.Is(err, interfaces.ErrInvalidCredentials))
}

func TestEncodeForm(t *testing.T) {
	form := []Param{
		{Key: "nonce", Value: "1616492376594"},
		{Key: "ordertype", Value: "limit"},
		{Key: "pair", Value: "XBTUSD"},
		{Key: "price", Value: "37500"},
		{Key: "type", Value: "buy"},
		{Key: "volume", Value: "1.25"},
	}
	assert.Equal(t, testPostdata, encodeForm(form))

	// Values needing escaping must come out urlencoded.
	escaped := encodeForm([]Param{{Key: "descr", Value: "a b&c"}})
	assert.Equal(t, "descr=a+b%26c", escaped)
}

func TestNonceStrictlyIncreasing(t *testing.T) {
	var source nonceSource

	const workers = 8
	const perWorker = 200

	nonces := make(chan uint64, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				nonces <- source.next()
			}
		}()
	}
	wg.Wait()
	close(nonces)

	seen := make(map[uint64]bool, workers*perWorker)
	for nonce := range nonces {
		assert.False(t, seen[nonce], "nonce %d issued twice", nonce)
		seen[nonce] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestNonceSurvivesClockRepeat(t *testing.T) {
	var source nonceSource
	first := source.next()

	// Pin the source past the current clock; the next value must still
	// move forward.
	source.mu.Lock()
	source.last = first + 1_000_000_000
	source.mu.Unlock()

	next := source.next()
	assert.Equal(t, first+1_000_000_001, next)
}
