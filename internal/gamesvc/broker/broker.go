package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Ledger event topics consumed by downstream services (analytics, robots).
const (
	TopicLogin  = "gamehub.events.login"
	TopicUpdate = "gamehub.events.update"
	TopicGift   = "gamehub.events.gift"
)

type LoginEvent struct {
	PlayerId   int64     `json:"player_id"`
	PlayerName string    `json:"player_name"`
	At         time.Time `json:"at"`
}

type UpdateEvent struct {
	PlayerId     int64     `json:"player_id"`
	ResourceType string    `json:"resource_type"`
	Amount       int64     `json:"amount"`
	Balance      int64     `json:"balance"`
	At           time.Time `json:"at"`
}

type GiftEvent struct {
	SenderId     int64     `json:"sender_id"`
	RecipientId  int64     `json:"recipient_id"`
	ResourceType string    `json:"resource_type"`
	Amount       int64     `json:"amount"`
	At           time.Time `json:"at"`
}

// Broker publishes ledger events to NATS. Publishing is fire-and-forget:
// a broker outage must never fail or delay a client command. A nil broker
// is valid and drops every event, which is how tests run.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(conn *nats.Conn) *Broker {
	return &Broker{Conn: conn}
}

func (b *Broker) PublishLogin(playerId int64, playerName string) {
	b.publish(TopicLogin, &LoginEvent{PlayerId: playerId, PlayerName: playerName, At: time.Now()})
}

func (b *Broker) PublishUpdate(playerId int64, resourceType string, amount, balance int64) {
	b.publish(TopicUpdate, &UpdateEvent{PlayerId: playerId, ResourceType: resourceType, Amount: amount, Balance: balance, At: time.Now()})
}

func (b *Broker) PublishGift(senderId, recipientId int64, resourceType string, amount int64) {
	b.publish(TopicGift, &GiftEvent{SenderId: senderId, RecipientId: recipientId, ResourceType: resourceType, Amount: amount, At: time.Now()})
}

func (b *Broker) publish(topic string, event interface{}) {
	if b == nil || b.Conn == nil {
		return
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal event for topic %s: %v", topic, err)
		return
	}

	if err := b.Conn.Publish(topic, bytes); err != nil {
		log.Errorf("error publishing to topic %s: %s", topic, err)
	}
}
