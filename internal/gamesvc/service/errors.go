package service

import (
	"github.com/awashgames/gamehub-services/internal/gamesvc/models"
)

// Machine-stable error strings surfaced to clients. These are business
// outcomes, not faults; handlers return them and keep the connection open.
const (
	ErrPlayerNotRegistered = "player not registered"
	ErrAlreadyLoggedIn     = "player already logged in"
	ErrNotLoggedIn         = "player not logged in"
	ErrGiftNonPositive     = "can't gift a non-positive amount"
	ErrGiftToSelf          = "can't gift to yourself"
	ErrRecipientNotFound   = "recipient not found"
	ErrUnknownResourceType = "unknown resource type"
	ErrServer              = "server error"
)

func errInsufficient(r models.Resource) string {
	return "insufficient " + string(r)
}
