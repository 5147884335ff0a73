package consumer

import (
	"context"
	"encoding/json"
	"log"

	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelConsumer drains the channel-manager feed into the channel buffer,
// where conflict detection reads it.
type ChannelConsumer struct {
	buffer repository.ChannelBufferRepository
}

func NewChannelConsumer(buffer repository.ChannelBufferRepository) *ChannelConsumer {
	return &ChannelConsumer{buffer: buffer}
}

// Start listens for channel reservations and upserts them into the buffer.
func (cc *ChannelConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[ChannelConsumer] channel closed, stopping consumer")
	}()
}

func (cc *ChannelConsumer) handleMessage(msg amqp.Delivery) {
	var res models.ChannelReservation
	if err := json.Unmarshal(msg.Body, &res); err != nil {
		log.Printf("[ChannelConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	if res.ChannelID == "" {
		log.Printf("[ChannelConsumer] dropping reservation without channel id")
		msg.Nack(false, false)
		return
	}

	if err := cc.buffer.Upsert(context.Background(), &res); err != nil {
		log.Printf("[ChannelConsumer] failed to upsert reservation %s: %v", res.ChannelID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[ChannelConsumer] buffered reservation %s from %s", res.ChannelID, res.Channel)
	msg.Ack(false)
}
