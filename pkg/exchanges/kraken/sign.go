package kraken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/veiloq/kraken-connector/pkg/exchanges/interfaces"
)

// Param is a single form parameter. Request parameters are kept as an
// ordered slice rather than a map: the signing digest covers the encoded
// body byte-for-byte, so the encoding order must be stable.
type Param struct {
	Key   string
	Value string
}

// encodeForm renders params as an application/x-www-form-urlencoded body.
// The same string must be both signed and transmitted; encoding it twice
// risks the two diverging.
func encodeForm(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Sign computes the API-Sign header value for a private REST request:
//
//	base64(HMAC-SHA512(base64decode(secret), path || SHA256(nonce || postdata)))
//
// where postdata is the url-encoded form body, which must already contain
// the nonce field. The secret is the base64-encoded key issued by the
// exchange; a secret that fails to decode reports invalid credentials.
func Sign(secret, path, postdata string, nonce uint64) (string, error) {
	decodedSecret, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", &UsageError{
			Reason: "could not decode API secret from base64",
			Err:    interfaces.ErrInvalidCredentials,
		}
	}

	digest := sha256.Sum256([]byte(strconv.FormatUint(nonce, 10) + postdata))

	mac := hmac.New(sha512.New, decodedSecret)
	mac.Write([]byte(path))
	mac.Write(digest[:])

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// nonceSource issues strictly increasing nonces. Values are seeded from
// the wall clock in microseconds so that a restarted process continues
// past nonces issued by earlier runs, and bumped past the previous value
// when the clock reads the same microsecond twice (or steps backwards).
type nonceSource struct {
	mu   sync.Mutex
	last uint64
}

func (n *nonceSource) next() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	nonce := uint64(time.Now().UnixMicro())
	if nonce <= n.last {
		nonce = n.last + 1
	}
	n.last = nonce
	return nonce
}
