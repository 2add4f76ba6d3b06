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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleNoLimits(t *testing.T) {
	throttle := NewThrottle(0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := throttle.TryAcquire()
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	ok, wait := throttle.TryAcquire()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), wait)
	assert.Equal(t, 0, throttle.Limits())
}

func TestThrottleLimits(t *testing.T) {
	throttle := NewThrottle(2)
	assert.Equal(t, 2, throttle.Limits())

	{
		ok, _ := throttle.TryAcquire()
		assert.True(t, ok)
		ok, _ = throttle.TryAcquire()
		assert.True(t, ok)
		ok, wait := throttle.TryAcquire()
		assert.False(t, ok)
		assert.True(t, wait > 0)
	}

	// Unlimited again.
	{
		throttle.Set(0)
		ok, _ := throttle.TryAcquire()
		assert.True(t, ok)
		ok, _ = throttle.TryAcquire()
		assert.True(t, ok)
	}

	{
		throttle.Set(100)
		assert.Equal(t, 100, throttle.Limits())
		ok, _ := throttle.TryAcquire()
		assert.True(t, ok)
	}
}
