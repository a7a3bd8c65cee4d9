package session

import (
	"sync"
)

// Sender is the write side of a live client connection. The registry only
// needs identity (map-key comparability) and the ability to push a reply,
// so tests can bind fakes instead of real sockets.
type Sender interface {
	Send(command string, payload interface{}) error
}

// Registry tracks which player is bound to which connection. At most one
// session may exist per player id, and a connection carries at most one
// player id.
type Registry struct {
	players sync.Map // playerId (int64) -> Sender
	conns   sync.Map // Sender -> playerId (int64)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds playerId to conn. It returns false without side effects
// when the player already has an active session. Concurrent calls for the
// same player id race on a single LoadOrStore, so exactly one wins.
func (r *Registry) Register(playerId int64, conn Sender) bool {
	if _, loaded := r.players.LoadOrStore(playerId, conn); loaded {
		return false
	}
	r.conns.Store(conn, playerId)
	return true
}

// Unregister drops whatever binding conn holds. Unbinding an unknown
// connection is a no-op.
func (r *Registry) Unregister(conn Sender) {
	id, ok := r.conns.LoadAndDelete(conn)
	if !ok {
		return
	}
	r.players.CompareAndDelete(id.(int64), conn)
}

// Resolve returns the player id acting on conn, or false when the
// connection has no session.
func (r *Registry) Resolve(conn Sender) (int64, bool) {
	id, ok := r.conns.Load(conn)
	if !ok {
		return 0, false
	}
	return id.(int64), true
}

// Connection is the reverse lookup used to push gift notifications to a
// recipient that is currently online.
func (r *Registry) Connection(playerId int64) (Sender, bool) {
	conn, ok := r.players.Load(playerId)
	if !ok {
		return nil, false
	}
	return conn.(Sender), true
}

// Count reports the number of active sessions.
func (r *Registry) Count() int {
	n := 0
	r.players.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
