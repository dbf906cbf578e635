package kafka

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// Message is the part of a Kafka record handlers care about
type Message struct {
	Key       []byte
	Value     []byte
	EventType string
}

type MessageHandler func(ctx context.Context, msg Message) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume hands every message to handler and commits its offset afterwards.
// Handler errors are logged and the message is committed anyway; notification
// delivery is best-effort.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		if err := handler(ctx, toMessage(msg)); err != nil {
			log.Printf("Error handling message at offset %d: %v", msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Error committing offset %d: %v", msg.Offset, err)
		}
	}
}

func toMessage(msg kafka.Message) Message {
	m := Message{Key: msg.Key, Value: msg.Value}
	for _, h := range msg.Headers {
		if h.Key == HeaderEventType {
			m.EventType = string(h.Value)
		}
	}
	return m
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
