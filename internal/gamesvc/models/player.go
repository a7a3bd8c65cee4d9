package models

import (
	"time"
)

// Player represents the players table in the database.
type Player struct {
	PlayerId   int64     `json:"player_id"`
	PlayerName string    `json:"player_name"`
	DeviceId   string    `json:"device_id"`
	Coins      int64     `json:"coins"`
	Rolls      int64     `json:"rolls"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Resource identifies one of a player's two balances.
type Resource string

const (
	ResourceCoins Resource = "coins"
	ResourceRolls Resource = "rolls"
)

// ParseResource validates a wire-level resource type string. It is the only
// place a raw resource string is inspected; everything downstream works on
// the typed value.
func ParseResource(s string) (Resource, bool) {
	switch Resource(s) {
	case ResourceCoins:
		return ResourceCoins, true
	case ResourceRolls:
		return ResourceRolls, true
	}
	return "", false
}

func (p *Player) Balance(r Resource) int64 {
	if r == ResourceRolls {
		return p.Rolls
	}
	return p.Coins
}

func (p *Player) SetBalance(r Resource, v int64) {
	if r == ResourceRolls {
		p.Rolls = v
		return
	}
	p.Coins = v
}
