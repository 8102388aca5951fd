package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiterAllow(t *testing.T) {
	kl := NewKeyedLimiter(0.001, 2)

	assert.True(t, kl.Allow("1.2.3.4"))
	assert.True(t, kl.Allow("1.2.3.4"))
	assert.False(t, kl.Allow("1.2.3.4"))

	// Buckets are per key.
	assert.True(t, kl.Allow("5.6.7.8"))
}

func TestKeyedLimiterWaitURLHonoursContext(t *testing.T) {
	kl := NewKeyedLimiter(0.001, 1)
	ctx := context.Background()
	assert.NoError(t, kl.WaitURL(ctx, "https://nrro.es/a"))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, kl.WaitURL(ctx, "https://nrro.es/b"))

	// Another host has its own bucket.
	assert.NoError(t, kl.WaitURL(context.Background(), "https://navarrotaxlegal.com/"))
}

func TestKeyedLimiterEvictsIdleKeys(t *testing.T) {
	kl := NewKeyedLimiter(1, 2)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	kl.now = func() time.Time { return clock }

	assert.True(t, kl.Allow("1.1.1.1"))
	clock = clock.Add(5 * time.Minute)
	assert.True(t, kl.Allow("2.2.2.2"))
	assert.Equal(t, 2, kl.Len())

	clock = clock.Add(6 * time.Minute)
	assert.True(t, kl.Allow("3.3.3.3"))
	assert.Equal(t, 2, kl.Len(), "1.1.1.1 idle for 11m is swept, 2.2.2.2 is kept")

	clock = clock.Add(20 * time.Minute)
	kl.Allow("3.3.3.3")
	assert.Equal(t, 1, kl.Len())
}

func TestKeyedLimiterIdleWindowCoversRefill(t *testing.T) {
	assert.Equal(t, minLimiterIdle, NewKeyedLimiter(1, 5).idle)
	assert.Equal(t, time.Hour, NewKeyedLimiter(0.5, 1800).idle)
}
