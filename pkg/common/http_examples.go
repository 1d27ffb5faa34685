package common

import (
	"context"
	"fmt"
	"net/http"
	"time"

	retry "github.com/avast/retry-go"
)

// DebugClientExample demonstrates wrapping the debug HTTP client with a
// retry loop. The client itself never retries, so this is the place for
// retry policy when the request is known to be safe to replay.
func DebugClientExample() {
	client := NewDebugHTTPClient(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var resp *http.Response
	err := retry.Do(
		func() error {
			var reqErr error
			resp, reqErr = client.Get(ctx, "https://api.kraken.com/0/public/Time")
			return reqErr
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			fmt.Printf("Retry attempt %d due to error: %v\n", n+1, err)
		}),
	)

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Response status: %s\n", resp.Status)
}
