package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	CraftService CraftEventPublisher
}

var produceInstance *Produce

// InitProduce wires the RabbitMQ publishers. A nil channel means no broker
// is configured and events are dropped.
func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	if channel == nil {
		produceInstance = NewProduce(NoopCraftPublisher{})
		return produceInstance
	}

	craftService := InitCraftProduceService(channel)
	if craftService == nil {
		panic("Failed to initialize Craft produce service")
	}

	produceInstance = NewProduce(craftService)
	return produceInstance
}

func NewProduce(craftService CraftEventPublisher) *Produce {
	return &Produce{CraftService: craftService}
}
