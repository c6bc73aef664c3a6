package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-craft-catalog/entity"
)

const (
	CraftExchange = "craft.exchange"

	CraftCreatedRoutingKey = "craft.created"
	CraftUpdatedRoutingKey = "craft.updated"
	CraftDeletedRoutingKey = "craft.deleted"
)

// CraftEvent is published after a craft mutation has been persisted.
type CraftEvent struct {
	Type         string        `json:"type"`                    // one of the routing keys
	Name         string        `json:"name"`                    // name the request addressed
	Craft        *entity.Craft `json:"craft,omitempty"`         // state sent by the client, absent on delete
	ImageChanged bool          `json:"image_changed,omitempty"` // update carried a new image
	Timestamp    int64         `json:"timestamp"`
}

type CraftEventPublisher interface {
	PublishCraftEvent(ctx context.Context, event CraftEvent) error
}

// CraftProduceService publishes craft change events to RabbitMQ
type CraftProduceService struct {
	channel *amqp.Channel
}

func InitCraftProduceService(channel *amqp.Channel) *CraftProduceService {
	err := channel.ExchangeDeclare(
		CraftExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Craft exchange: " + err.Error())
	}

	return &CraftProduceService{channel: channel}
}

func (s *CraftProduceService) PublishCraftEvent(ctx context.Context, event CraftEvent) error {
	event.Timestamp = time.Now().Unix()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		CraftExchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

// NoopCraftPublisher drops events when no broker is configured.
type NoopCraftPublisher struct{}

func (NoopCraftPublisher) PublishCraftEvent(context.Context, CraftEvent) error {
	return nil
}
