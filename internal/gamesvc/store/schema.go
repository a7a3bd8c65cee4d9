package store

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// EnsureSchema creates the players table when it does not exist yet.
func (s *PlayerStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS players (
            player_id   BIGSERIAL PRIMARY KEY,
            player_name TEXT NOT NULL,
            device_id   TEXT NOT NULL UNIQUE,
            coins       BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
            rolls       BIGINT NOT NULL DEFAULT 0 CHECK (rolls >= 0),
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("could not create players table: %w", err)
	}
	return nil
}

// Seed inserts the starter roster on an empty install. Existing devices are
// left untouched, so re-running at boot is safe.
func (s *PlayerStore) Seed(ctx context.Context) error {
	seed := []struct {
		name     string
		deviceId string
		coins    int64
	}{
		{"Carson", "1234", 100},
		{"Meredith", "5678", 200},
		{"Arturo", "9012", 300},
		{"Gytis", "3456", 400},
		{"Yan", "7890", 500},
		{"Peggy", "2345", 600},
		{"Laura", "6789", 700},
	}

	for _, p := range seed {
		tag, err := s.db.Exec(ctx, `
            INSERT INTO players (player_name, device_id, coins)
            VALUES ($1, $2, $3)
            ON CONFLICT (device_id) DO NOTHING
        `, p.name, p.deviceId, p.coins)
		if err != nil {
			return fmt.Errorf("could not seed player %s: %w", p.name, err)
		}
		if tag.RowsAffected() > 0 {
			log.Infof("seeded player %s (device %s)", p.name, p.deviceId)
		}
	}

	return nil
}
