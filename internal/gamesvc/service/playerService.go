package service

import (
	"context"
	"errors"

	"github.com/awashgames/gamehub-services/internal/comm"
	"github.com/awashgames/gamehub-services/internal/gamesvc/models"
	"github.com/awashgames/gamehub-services/internal/gamesvc/session"
	"github.com/awashgames/gamehub-services/internal/gamesvc/store"
	log "github.com/sirupsen/logrus"
)

// PlayerStore is the persistence surface the services depend on; the pgx
// store satisfies it in production and tests bind an in-memory fake.
type PlayerStore interface {
	GetByDeviceID(ctx context.Context, deviceId string) (*models.Player, error)
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	UpdateBalances(ctx context.Context, p *models.Player) error
	TransferBalances(ctx context.Context, sender, recipient *models.Player) error
}

// PlayerService handles login, logout and player listing.
type PlayerService struct {
	store    PlayerStore
	sessions *session.Registry
}

func NewPlayerService(store PlayerStore, sessions *session.Registry) *PlayerService {
	return &PlayerService{
		store:    store,
		sessions: sessions,
	}
}

// Login looks up the player behind deviceId and binds it to conn. A device
// with no player row and a player that is already online are both rejected
// without side effects.
func (s *PlayerService) Login(ctx context.Context, deviceId string, conn session.Sender) *comm.LoginResponse {
	player, err := s.store.GetByDeviceID(ctx, deviceId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warnf("login: no player registered for device %s", deviceId)
			return &comm.LoginResponse{Status: comm.StatusError, Error: ErrPlayerNotRegistered}
		}
		log.Errorf("login: store lookup failed for device %s: %v", deviceId, err)
		return &comm.LoginResponse{Status: comm.StatusError, Error: ErrServer}
	}

	if !s.sessions.Register(player.PlayerId, conn) {
		log.Warnf("player %d: %s is already logged in", player.PlayerId, player.PlayerName)
		return &comm.LoginResponse{
			PlayerId:   player.PlayerId,
			PlayerName: player.PlayerName,
			Status:     comm.StatusError,
			Error:      ErrAlreadyLoggedIn,
		}
	}

	log.Infof("player %d: %s logged in", player.PlayerId, player.PlayerName)
	return &comm.LoginResponse{
		PlayerId:   player.PlayerId,
		PlayerName: player.PlayerName,
		Status:     comm.StatusSuccess,
	}
}

// Logout drops the session bound to conn, if any.
func (s *PlayerService) Logout(conn session.Sender) *comm.LogoutResponse {
	if playerId, ok := s.sessions.Resolve(conn); ok {
		log.Infof("player %d logged out", playerId)
	}
	s.sessions.Unregister(conn)
	return &comm.LogoutResponse{Status: comm.StatusSuccess}
}

// List returns every registered player, for the admin surface.
func (s *PlayerService) List(ctx context.Context) ([]*models.Player, error) {
	return s.store.List(ctx)
}
