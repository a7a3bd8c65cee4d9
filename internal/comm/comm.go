package comm

import (
	"encoding/json"
)

// Command discriminators carried in the "command" field of every frame.
const (
	CommandLogin           = "login"
	CommandUpdateResources = "updateResources"
	CommandSendGift        = "sendGift"
	CommandLogout          = "logout"
)

// Operation result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WSMessage is one inbound frame from a web client. The payload stays raw
// until the command handler decodes it.
type WSMessage struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// WSReply is one outbound frame; the payload is one of the response types
// below and reuses the request's command name.
type WSReply struct {
	Command string      `json:"command"`
	Payload interface{} `json:"payload"`
}

type LoginRequest struct {
	DeviceId string `json:"deviceId"`
}

type LoginResponse struct {
	PlayerId   int64  `json:"playerId"`
	PlayerName string `json:"playerName,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

type UpdateResourcesRequest struct {
	ResourceType  string `json:"resourceType"`
	ResourceValue int64  `json:"resourceValue"`
}

type UpdateResourcesResponse struct {
	ResourceType string `json:"resourceType,omitempty"`
	Balance      int64  `json:"balance"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

type SendGiftRequest struct {
	ResourceType  string `json:"resourceType"`
	ResourceValue int64  `json:"resourceValue"`
	RecipientId   int64  `json:"recipientId"`
}

type SendGiftResponse struct {
	ResourceType  string `json:"resourceType,omitempty"`
	ResourceValue int64  `json:"resourceValue"`
	Balance       int64  `json:"balance"`
	Sender        string `json:"sender,omitempty"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

type LogoutResponse struct {
	Status string `json:"status"`
}
