package serverutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowWithinLimit(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, retryAfter := l.Allow("user-1")
		assert.True(t, ok, "request %d should be allowed", i+1)
		assert.Zero(t, retryAfter)
	}

	ok, retryAfter := l.Allow("user-1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 61)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)

	ok, _ := l.Allow("user-1")
	assert.True(t, ok)
	ok, _ = l.Allow("user-2")
	assert.True(t, ok)

	ok, _ = l.Allow("user-1")
	assert.False(t, ok)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	l := NewRateLimiter(1, 20*time.Millisecond)

	ok, _ := l.Allow("user-1")
	assert.True(t, ok)
	ok, _ = l.Allow("user-1")
	assert.False(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, _ = l.Allow("user-1")
	assert.True(t, ok, "window should have reset")
}
