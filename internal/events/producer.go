// Package events publishes holding mutation events to Kafka so
// downstream consumers (alerting, analytics) can follow portfolio
// changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoward/portfolio-tracker/internal/models"
)

// Producer handles publishing events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishHoldingSaved publishes a created/updated holding event
func (p *Producer) PublishHoldingSaved(ctx context.Context, h *models.Holding) error {
	event := models.HoldingEvent{
		EventType:   "HOLDING_SAVED",
		Holding:     h,
		HoldingID:   h.ID,
		PortfolioID: h.PortfolioID,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, h.PortfolioID, event)
}

// PublishHoldingDeleted publishes a holding deleted event
func (p *Producer) PublishHoldingDeleted(ctx context.Context, portfolioID, holdingID string) error {
	event := models.HoldingEvent{
		EventType:   "HOLDING_DELETED",
		HoldingID:   holdingID,
		PortfolioID: portfolioID,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, portfolioID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.HoldingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
