/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package xbase

import (
	"sync"
	"time"

	"github.com/beefsack/go-rate"
	"go.uber.org/atomic"
)

// Throttle limits the events per second, a non-positive limit means unlimited.
type Throttle struct {
	limit *atomic.Int32
	rate  *rate.RateLimiter
	mu    sync.Mutex
}

// NewThrottle creates the new throttle.
func NewThrottle(l int) *Throttle {
	t := &Throttle{limit: atomic.NewInt32(int32(l))}
	if l > 0 {
		t.rate = rate.New(l, time.Second)
	}
	return t
}

// TryAcquire returns false with the time to wait when the event exceeds the limit.
func (throttle *Throttle) TryAcquire() (bool, time.Duration) {
	if throttle.limit.Load() <= 0 {
		return true, 0
	}

	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	if throttle.rate == nil {
		return true, 0
	}
	return throttle.rate.Try()
}

// Set used to set the quota for the throttle.
func (throttle *Throttle) Set(l int) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	throttle.limit.Store(int32(l))
	throttle.rate = nil
	if l > 0 {
		throttle.rate = rate.New(l, time.Second)
	}
}

// Limits returns the limits of the throttle.
func (throttle *Throttle) Limits() int {
	return int(throttle.limit.Load())
}
