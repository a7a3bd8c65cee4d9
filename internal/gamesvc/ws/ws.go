package ws

import (
	"context"
	"encoding/json"

	"github.com/awashgames/gamehub-services/internal/comm"
	"github.com/awashgames/gamehub-services/internal/gamesvc/broker"
	"github.com/awashgames/gamehub-services/internal/gamesvc/service"
	"github.com/awashgames/gamehub-services/internal/gamesvc/session"
	log "github.com/sirupsen/logrus"
)

// Ws routes decoded command frames to the player and resource services and
// writes the responses back. It is the only place the command discriminator
// is inspected.
type Ws struct {
	sessions  *session.Registry
	players   *service.PlayerService
	resources *service.ResourceService
	Broker    *broker.Broker
}

func NewWs(sessions *session.Registry, players *service.PlayerService, resources *service.ResourceService) *Ws {
	return &Ws{
		sessions:  sessions,
		players:   players,
		resources: resources,
	}
}

// SocketMessage dispatches one frame from a web client.
func (s *Ws) SocketMessage(conn session.Sender, message *comm.WSMessage) {
	switch message.Command {
	case comm.CommandLogin:
		s.handleLogin(conn, message)
	case comm.CommandUpdateResources:
		s.handleUpdateResources(conn, message)
	case comm.CommandSendGift:
		s.handleSendGift(conn, message)
	case comm.CommandLogout:
		s.handleLogout(conn)
	default:
		log.Warnf("unknown command received: %s", message.Command)
	}
}

// HandleDisconnect releases the session bound to a closed connection. An
// in-flight ledger mutation keeps running; unbinding only affects routing
// of future frames.
func (s *Ws) HandleDisconnect(conn session.Sender) {
	s.sessions.Unregister(conn)
}

func (s *Ws) handleLogin(conn session.Sender, msg *comm.WSMessage) {
	var req comm.LoginRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		log.Errorf("malformed login payload: %v", err)
		s.send(conn, comm.CommandLogin, &comm.LoginResponse{Status: comm.StatusError, Error: "invalid payload"})
		return
	}

	// Mutations and session changes never inherit the connection's
	// lifetime; a drop mid-command must not cancel them.
	resp := s.players.Login(context.Background(), req.DeviceId, conn)
	s.send(conn, comm.CommandLogin, resp)

	if resp.Status == comm.StatusSuccess {
		s.Broker.PublishLogin(resp.PlayerId, resp.PlayerName)
	}
}

func (s *Ws) handleUpdateResources(conn session.Sender, msg *comm.WSMessage) {
	playerId, ok := s.sessions.Resolve(conn)
	if !ok {
		s.send(conn, comm.CommandUpdateResources, &comm.UpdateResourcesResponse{Status: comm.StatusError, Error: service.ErrNotLoggedIn})
		return
	}

	var req comm.UpdateResourcesRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		log.Errorf("malformed updateResources payload from player %d: %v", playerId, err)
		s.send(conn, comm.CommandUpdateResources, &comm.UpdateResourcesResponse{Status: comm.StatusError, Error: "invalid payload"})
		return
	}

	resp := s.resources.UpdateResources(context.Background(), playerId, req.ResourceType, req.ResourceValue)
	s.send(conn, comm.CommandUpdateResources, resp)

	if resp.Status == comm.StatusSuccess {
		s.Broker.PublishUpdate(playerId, req.ResourceType, req.ResourceValue, resp.Balance)
	}
}

func (s *Ws) handleSendGift(conn session.Sender, msg *comm.WSMessage) {
	senderId, ok := s.sessions.Resolve(conn)
	if !ok {
		s.send(conn, comm.CommandSendGift, &comm.SendGiftResponse{Status: comm.StatusError, Error: service.ErrNotLoggedIn})
		return
	}

	var req comm.SendGiftRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		log.Errorf("malformed sendGift payload from player %d: %v", senderId, err)
		s.send(conn, comm.CommandSendGift, &comm.SendGiftResponse{Status: comm.StatusError, Error: "invalid payload"})
		return
	}

	resp := s.resources.SendGift(context.Background(), senderId, req.RecipientId, req.ResourceType, req.ResourceValue)
	s.send(conn, comm.CommandSendGift, resp)

	if resp.Status == comm.StatusSuccess {
		// Push the gift to the recipient when they are online.
		if recipientConn, online := s.sessions.Connection(req.RecipientId); online {
			s.send(recipientConn, comm.CommandSendGift, resp)
		}
		s.Broker.PublishGift(senderId, req.RecipientId, req.ResourceType, req.ResourceValue)
	}
}

func (s *Ws) handleLogout(conn session.Sender) {
	resp := s.players.Logout(conn)
	s.send(conn, comm.CommandLogout, resp)
}

func (s *Ws) send(conn session.Sender, command string, payload interface{}) {
	if err := conn.Send(command, payload); err != nil {
		log.Errorf("failed to send %s response: %v", command, err)
	}
}
