package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/awashgames/gamehub-services/internal/gamesvc/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no player row.
var ErrNotFound = errors.New("player not found")

type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

const playerColumns = `player_id, player_name, device_id, coins, rolls, created_at, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(
		&p.PlayerId,
		&p.PlayerName,
		&p.DeviceId,
		&p.Coins,
		&p.Rolls,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+playerColumns+`
        FROM players
        WHERE player_id = $1
    `, id)

	return scanPlayer(row)
}

func (s *PlayerStore) GetByDeviceID(ctx context.Context, deviceId string) (*models.Player, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+playerColumns+`
        FROM players
        WHERE device_id = $1
    `, deviceId)

	return scanPlayer(row)
}

func (s *PlayerStore) List(ctx context.Context) ([]*models.Player, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+playerColumns+`
        FROM players
        ORDER BY player_id
    `)
	if err != nil {
		return nil, fmt.Errorf("could not list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{}
		err := rows.Scan(
			&p.PlayerId,
			&p.PlayerName,
			&p.DeviceId,
			&p.Coins,
			&p.Rolls,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// UpdateBalances persists both balance fields of a single player. Callers
// hold the player's ledger lock for the whole read-modify-write.
func (s *PlayerStore) UpdateBalances(ctx context.Context, p *models.Player) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE players
        SET coins = $2, rolls = $3, updated_at = now()
        WHERE player_id = $1
    `, p.PlayerId, p.Coins, p.Rolls)
	if err != nil {
		return fmt.Errorf("could not update balances for player %d: %w", p.PlayerId, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TransferBalances persists both sides of a gift in one transaction so a
// crash can never leave the ledger debited but not credited.
func (s *PlayerStore) TransferBalances(ctx context.Context, sender, recipient *models.Player) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range []*models.Player{sender, recipient} {
		tag, err := tx.Exec(ctx, `
            UPDATE players
            SET coins = $2, rolls = $3, updated_at = now()
            WHERE player_id = $1
        `, p.PlayerId, p.Coins, p.Rolls)
		if err != nil {
			return fmt.Errorf("could not update balances for player %d: %w", p.PlayerId, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	return tx.Commit(ctx)
}
