package store

import (
	"context"
	"sync"
	"time"

	"github.com/awashgames/gamehub-services/internal/gamesvc/models"
)

// MemoryStore keeps players in a map, for tests and local development
// without postgres. Reads return copies, so callers mutating a player
// without persisting never touch the stored state.
type MemoryStore struct {
	mu      sync.Mutex
	players map[int64]*models.Player

	// ReadDelay is added to every GetByID. Concurrency tests use it to
	// widen the ledger's critical section and force interleavings.
	ReadDelay time.Duration
}

func NewMemoryStore(players ...*models.Player) *MemoryStore {
	m := &MemoryStore{players: make(map[int64]*models.Player)}
	for _, p := range players {
		cp := *p
		m.players[p.PlayerId] = &cp
	}
	return m
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	if m.ReadDelay > 0 {
		time.Sleep(m.ReadDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) GetByDeviceID(ctx context.Context, deviceId string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.DeviceId == deviceId {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context) ([]*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]*models.Player, 0, len(m.players))
	for _, p := range m.players {
		cp := *p
		players = append(players, &cp)
	}
	return players, nil
}

func (m *MemoryStore) UpdateBalances(ctx context.Context, p *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.players[p.PlayerId]
	if !ok {
		return ErrNotFound
	}
	stored.Coins = p.Coins
	stored.Rolls = p.Rolls
	return nil
}

// TransferBalances applies both sides or neither, under the store lock.
func (m *MemoryStore) TransferBalances(ctx context.Context, sender, recipient *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range []*models.Player{sender, recipient} {
		if _, ok := m.players[p.PlayerId]; !ok {
			return ErrNotFound
		}
	}
	for _, p := range []*models.Player{sender, recipient} {
		stored := m.players[p.PlayerId]
		stored.Coins = p.Coins
		stored.Rolls = p.Rolls
	}
	return nil
}
