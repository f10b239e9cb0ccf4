// Package ratelimit provides a per-client request limiter used on the
// mutating routes.
package ratelimit

import (
	"sync"
	"time"
)

const staleAfter = 10 * time.Minute

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter counts requests per client IP in fixed one-minute windows.
type Limiter struct {
	mu   sync.Mutex
	byIP map[string]*window
	stop chan struct{}
	once sync.Once

	perMinute int
	sweepTick time.Duration
}

type window struct {
	count   int
	resetAt time.Time
	lastHit time.Time
}

// NewLimiter builds a limiter and starts its background sweep of idle
// clients. Call Stop during shutdown.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	l := &Limiter{
		byIP:      make(map[string]*window),
		stop:      make(chan struct{}),
		perMinute: config.RequestsPerMinute,
		sweepTick: config.CleanupInterval,
	}
	go l.sweepLoop()
	return l
}

// Allow reports whether a request from the given IP fits in its
// current window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.byIP[clientIP]
	if !ok || now.After(w.resetAt) {
		l.byIP[clientIP] = &window{count: 1, resetAt: now.Add(time.Minute), lastHit: now}
		return true
	}
	w.count++
	w.lastHit = now
	return w.count <= l.perMinute
}

// ActiveClients returns how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byIP)
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdle()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, w := range l.byIP {
		if w.lastHit.Before(cutoff) {
			delete(l.byIP, ip)
		}
	}
}
