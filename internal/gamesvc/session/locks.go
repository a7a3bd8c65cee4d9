package session

import (
	"sync"
)

// LockRegistry hands out one mutex per player id, created on first use and
// kept for the lifetime of the registry. Growth is bounded by the player
// population, not by connection churn.
type LockRegistry struct {
	locks sync.Map // playerId (int64) -> *sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// For returns the shared mutex for playerId. Concurrent first requests
// converge on a single instance via LoadOrStore.
func (r *LockRegistry) For(playerId int64) *sync.Mutex {
	if l, ok := r.locks.Load(playerId); ok {
		return l.(*sync.Mutex)
	}
	l, _ := r.locks.LoadOrStore(playerId, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// Pair returns the locks for two players in ascending player-id order.
// Every two-party operation acquires in this order, so no pair of
// transfers can form a wait cycle.
func (r *LockRegistry) Pair(a, b int64) (first, second *sync.Mutex) {
	if b < a {
		a, b = b, a
	}
	return r.For(a), r.For(b)
}
