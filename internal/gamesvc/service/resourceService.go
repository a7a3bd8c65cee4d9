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

// ResourceService is the ledger engine. Every balance mutation runs under
// the owning player's lock from the lock registry; two-party gifts take
// both locks in ascending player-id order.
type ResourceService struct {
	store PlayerStore
	locks *session.LockRegistry
}

func NewResourceService(store PlayerStore, locks *session.LockRegistry) *ResourceService {
	return &ResourceService{
		store: store,
		locks: locks,
	}
}

// UpdateResources applies a signed delta to one of the player's balances.
// The read-modify-write runs while holding the player's lock; a delta that
// would drive the balance negative is rejected and the store left as is.
// The error payload carries the would-be negative balance for display.
func (s *ResourceService) UpdateResources(ctx context.Context, playerId int64, resourceType string, amount int64) *comm.UpdateResourcesResponse {
	resource, ok := models.ParseResource(resourceType)
	if !ok {
		log.Warnf("player %d requested unknown resource type %q", playerId, resourceType)
		return &comm.UpdateResourcesResponse{
			ResourceType: resourceType,
			Status:       comm.StatusError,
			Error:        ErrUnknownResourceType,
		}
	}

	lock := s.locks.For(playerId)
	lock.Lock()
	defer lock.Unlock()

	player, err := s.store.GetByID(ctx, playerId)
	if err != nil {
		log.Errorf("update: could not load player %d: %v", playerId, err)
		return &comm.UpdateResourcesResponse{ResourceType: resourceType, Status: comm.StatusError, Error: ErrServer}
	}

	balance := player.Balance(resource) + amount
	if balance < 0 {
		log.Warnf("player %d has insufficient %s", playerId, resource)
		return &comm.UpdateResourcesResponse{
			ResourceType: resourceType,
			Balance:      balance,
			Status:       comm.StatusError,
			Error:        errInsufficient(resource),
		}
	}

	player.SetBalance(resource, balance)
	if err := s.store.UpdateBalances(ctx, player); err != nil {
		log.Errorf("update: could not persist player %d: %v", playerId, err)
		return &comm.UpdateResourcesResponse{ResourceType: resourceType, Status: comm.StatusError, Error: ErrServer}
	}

	log.Infof("player %d updated %s by %d", playerId, resource, amount)
	return &comm.UpdateResourcesResponse{
		ResourceType: resourceType,
		Balance:      balance,
		Status:       comm.StatusSuccess,
	}
}

// SendGift moves a positive amount of one resource from sender to
// recipient atomically. Cheap validation runs before any lock is taken;
// both player locks are then acquired in ascending id order and released
// in reverse, so concurrent opposite-direction gifts cannot deadlock.
func (s *ResourceService) SendGift(ctx context.Context, senderId, recipientId int64, resourceType string, amount int64) *comm.SendGiftResponse {
	if amount <= 0 {
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrGiftNonPositive}
	}

	resource, ok := models.ParseResource(resourceType)
	if !ok {
		log.Warnf("player %d requested unknown resource type %q", senderId, resourceType)
		return &comm.SendGiftResponse{
			ResourceType: resourceType,
			Status:       comm.StatusError,
			Error:        ErrUnknownResourceType,
		}
	}

	if senderId == recipientId {
		log.Warnf("player %d tried to send a gift to themselves", senderId)
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrGiftToSelf}
	}

	if _, err := s.store.GetByID(ctx, recipientId); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warnf("gift recipient %d not found", recipientId)
			return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrRecipientNotFound}
		}
		log.Errorf("gift: could not load recipient %d: %v", recipientId, err)
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrServer}
	}

	first, second := s.locks.Pair(senderId, recipientId)
	first.Lock()
	second.Lock()
	defer first.Unlock()
	defer second.Unlock()

	sender, err := s.store.GetByID(ctx, senderId)
	if err != nil {
		log.Errorf("gift: could not load sender %d: %v", senderId, err)
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrServer}
	}
	recipient, err := s.store.GetByID(ctx, recipientId)
	if err != nil {
		log.Errorf("gift: could not load recipient %d: %v", recipientId, err)
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrServer}
	}

	debited := sender.Balance(resource) - amount
	if debited < 0 {
		log.Warnf("player %d has insufficient %s", senderId, resource)
		return &comm.SendGiftResponse{
			ResourceType:  resourceType,
			ResourceValue: debited,
			Balance:       sender.Balance(resource),
			Status:        comm.StatusError,
			Error:         errInsufficient(resource),
		}
	}

	sender.SetBalance(resource, debited)
	recipient.SetBalance(resource, recipient.Balance(resource)+amount)

	if err := s.store.TransferBalances(ctx, sender, recipient); err != nil {
		log.Errorf("gift: could not persist transfer %d -> %d: %v", senderId, recipientId, err)
		return &comm.SendGiftResponse{Status: comm.StatusError, Error: ErrServer}
	}

	log.Infof("player %d sent %d %s to player %d", senderId, amount, resource, recipientId)
	return &comm.SendGiftResponse{
		ResourceType:  resourceType,
		ResourceValue: amount,
		Balance:       recipient.Balance(resource),
		Sender:        sender.PlayerName,
		Status:        comm.StatusSuccess,
	}
}
