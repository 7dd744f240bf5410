package publisher

import (
	"sync"
	"sync/atomic"
)

// guardLock is held exclusively while the channel is being replaced. Lock
// and Unlock are idempotent, so a failed reconnect that never reaches
// onConnectionReady leaves it locked instead of panicking on a second Lock.
type guardLock struct {
	mu     sync.RWMutex
	locked atomic.Bool
}

func (g *guardLock) Lock() {
	if g.locked.Load() {
		return
	}

	g.mu.Lock()
	g.locked.Store(true)
}

func (g *guardLock) Unlock() {
	if !g.locked.Load() {
		return
	}

	g.locked.Store(false)
	g.mu.Unlock()
}

// TryRLock acquires the read side unless the channel is being replaced.
func (g *guardLock) TryRLock() bool {
	return g.mu.TryRLock()
}

func (g *guardLock) RUnlock() {
	g.mu.RUnlock()
}

func (g *guardLock) Locked() bool {
	return g.locked.Load()
}
