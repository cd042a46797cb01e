package lib

import (
	"math/rand"
	"time"
)

// JitteredTicker returns a ticker that ticks every interval plus a random
// offset between 0 and 10% of the interval.
//
// Use it for periodic maintenance jobs so that several replicas
// started at the same time don't hit the database in lockstep.
func JitteredTicker(interval time.Duration) *time.Ticker {
	if interval <= 0 {
		interval = time.Hour
	}

	var jitter time.Duration
	if span := int64(interval / 10); span > 0 {
		jitter = time.Duration(rand.Int63n(span))
	}

	return time.NewTicker(interval + jitter)
}
