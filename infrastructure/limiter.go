package infrastructure

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const minLimiterIdle = 10 * time.Minute

type keyedBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// KeyedLimiter hands out one token bucket per key (client IP, remote host).
// Buckets idle for longer than it takes them to refill are swept, so the
// map tracks recent clients only.
type KeyedLimiter struct {
	mu        sync.Mutex
	m         map[string]*keyedBucket
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewKeyedLimiter(reqPerSec float64, burst int) *KeyedLimiter {
	idle := minLimiterIdle
	if reqPerSec > 0 {
		if refill := time.Duration(float64(burst) / reqPerSec * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &KeyedLimiter{
		m:    make(map[string]*keyedBucket),
		r:    rate.Limit(reqPerSec),
		b:    burst,
		idle: idle,
		now:  time.Now,
	}
}

func (kl *KeyedLimiter) limiterFor(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := kl.now()
	if now.Sub(kl.lastSweep) >= kl.idle {
		kl.sweep(now)
	}

	if kb, ok := kl.m[key]; ok {
		kb.seen = now
		return kb.lim
	}
	kb := &keyedBucket{lim: rate.NewLimiter(kl.r, kl.b), seen: now}
	kl.m[key] = kb
	return kb.lim
}

// sweep drops buckets not used within the idle window. Caller holds mu.
func (kl *KeyedLimiter) sweep(now time.Time) {
	for k, kb := range kl.m {
		if now.Sub(kb.seen) >= kl.idle {
			delete(kl.m, k)
		}
	}
	kl.lastSweep = now
}

// Len reports how many keys currently hold a bucket.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.m)
}

// Allow is the non-blocking check used by HTTP middleware.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.limiterFor(key).Allow()
}

// WaitURL blocks until the URL's host may be requested again.
func (kl *KeyedLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return kl.limiterFor("_").Wait(ctx)
	}
	return kl.limiterFor(u.Host).Wait(ctx)
}
