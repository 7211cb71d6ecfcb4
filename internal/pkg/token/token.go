package token

import (
	"sync/atomic"
	"time"
)

var last atomic.Int64

// Next returns a millisecond-resolution identity token, strictly increasing
// within the process even when called faster than the clock ticks.
func Next() int64 {
	for {
		now := time.Now().UnixMilli()
		prev := last.Load()
		if now <= prev {
			now = prev + 1
		}
		if last.CompareAndSwap(prev, now) {
			return now
		}
	}
}

// Pair reserves two consecutive tokens. The first is assigned to the user
// message, the second to its assistant reply, preserving their ordering.
func Pair() (int64, int64) {
	for {
		now := time.Now().UnixMilli()
		prev := last.Load()
		if now <= prev {
			now = prev + 1
		}
		if last.CompareAndSwap(prev, now+1) {
			return now, now + 1
		}
	}
}
