package service

import (
	"context"
	"encoding/json"
	"fmt"

	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  StreamDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery StreamDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage tells the user's other connections their durable history
// grew. Malformed payloads are acked to prevent infinite redelivery.
func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.ExchangeStoredMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err})
		msg.Ack()
		return
	}

	cs.logger.Info("ConsumerService",
		fmt.Sprintf("Chat exchange stored for persona %q", payload.PersonaTitle),
		map[string]interface{}{"uid": payload.UID, "message_count": payload.MessageCount})

	if cs.delivery != nil {
		cs.delivery.Send(payload.UID, websocket.Frame{
			Type: "notification",
			Data: map[string]interface{}{
				"kind":          "history_updated",
				"persona_title": payload.PersonaTitle,
				"message_count": payload.MessageCount,
			},
		})
	}

	msg.Ack()
}
