package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/awashgames/gamehub-services/internal/comm"
	"github.com/awashgames/gamehub-services/internal/gamesvc/service"
	"github.com/awashgames/gamehub-services/internal/gamesvc/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
	players  *service.PlayerService
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func NewHandler(s *ws.Ws, players *service.PlayerService) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws:      s,
		players: players,
	}
	return h
}

// HandleWebSocket upgrades the request and starts the per-connection read
// loop. Each connection is served by its own goroutine; nothing here
// serializes commands across connections.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		http.Error(w, "Failed to upgrade to WebSocket", http.StatusInternalServerError)
		return
	}

	socketId := uuid.New().String()
	client := ws.NewClient(socketId, conn)

	log.Infof("New WebSocket connection established: %s", socketId)

	go h.handleConnection(client)
}

func (h *Handler) handleConnection(client *ws.Client) {
	defer func() {
		log.Infof("Closing WebSocket connection: %s", client.SocketId())
		client.Close()
		h.ws.HandleDisconnect(client)
	}()

	for {
		_, raw, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", client.SocketId(), err)
			} else {
				log.Infof("WebSocket connection closed normally for socket: %s", client.SocketId())
			}
			break
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Errorf("Failed to unmarshal message from socket %s: %v", client.SocketId(), err)
			h.sendErrorToClient(client, "Invalid message format")
			continue
		}

		log.Debugf("Received message from socket %s: command=%s", client.SocketId(), message.Command)

		h.ws.SocketMessage(client, message)
	}
}

// sendErrorToClient reports a malformed frame back to the client without
// dropping the connection.
func (h *Handler) sendErrorToClient(client *ws.Client, errorMsg string) {
	if err := client.Send(comm.StatusError, map[string]string{"error": errorMsg}); err != nil {
		log.Errorf("Failed to send error message to client: %v", err)
	}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}

// PlayersHandler lists every registered player, for operators.
func (h *Handler) PlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.List(r.Context())
	if err != nil {
		log.Errorf("Failed to list players: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "could not list players"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: players})
}
