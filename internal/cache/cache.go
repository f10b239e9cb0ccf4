// Package cache provides a generic LRU cache with TTL, used to keep
// article summaries from being regenerated per request.
package cache

import "time"

// Cache defines a generic cache interface.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that support expiry sweeps.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered caches for expired entries on a timer.
type Manager struct {
	caches  []Cleaner
	quit    chan struct{}
	done    chan struct{}
	running bool
}

func NewManager() *Manager {
	return &Manager{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep rotation. Not safe to call after
// StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup launches the sweep goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.running = true
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range m.caches {
					c.CleanExpired()
				}
			case <-m.quit:
				return
			}
		}
	}()
}

// Stop ends the sweep goroutine and waits for it to exit. Returns
// immediately if StartCleanup was never called.
func (m *Manager) Stop() {
	close(m.quit)
	if m.running {
		<-m.done
	}
}
