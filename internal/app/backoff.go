package app

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newBackoff doubles the delay between reconnect attempts from minDelay up to
// maxDelay, with jitter, and never gives up.
func newBackoff(minDelay, maxDelay time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = minDelay
	b.MaxInterval = maxDelay
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()

	return b
}
