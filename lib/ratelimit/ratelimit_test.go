package ratelimit

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExactlyMaxCallsSucceedWithinWindow(t *testing.T) {
	r := New(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, r.Allow("client"), "call %d should be allowed", i)
	}
	assert.False(t, r.Allow("client"))
	assert.False(t, r.Allow("client"))
}

func TestWindowResetAllowsAgain(t *testing.T) {
	r := New(2, 50*time.Millisecond)

	assert.True(t, r.Allow("client"))
	assert.True(t, r.Allow("client"))
	assert.False(t, r.Allow("client"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, r.Allow("client"))
}

func TestClientsAreIndependent(t *testing.T) {
	r := New(1, time.Minute)

	assert.True(t, r.Allow("a"))
	assert.False(t, r.Allow("a"))
	assert.True(t, r.Allow("b"))
}

func TestGetOrCreateIsConcurrencySafe(t *testing.T) {
	r := New(1000000, time.Minute)
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Allow("client-" + strconv.Itoa(n%5))
			}
		}(i)
	}
	wg.Wait()
}
