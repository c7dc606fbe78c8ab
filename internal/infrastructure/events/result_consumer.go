package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"matchchat/pkg/logger"
)

// ResultHandler is told about every match whose result was written.
type ResultHandler interface {
	OnResultReported(ctx context.Context, matchID int64) (int64, error)
}

// ResultEvent is the payload published when a match result is stored.
type ResultEvent struct {
	MatchID      int64 `json:"match_id"`
	TournamentID int64 `json:"tournament_id,omitempty"`
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ResultConsumer feeds result events from a kafka topic into the reaper.
type ResultConsumer struct {
	reader  messageReader
	handler ResultHandler
}

func NewResultConsumer(brokers []string, topic, groupID string, handler ResultHandler) *ResultConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &ResultConsumer{reader: r, handler: handler}
}

// Consume blocks until ctx is cancelled.
func (c *ResultConsumer) Consume(ctx context.Context) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Error reading result event: %v. Retrying in 1s...", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.handle(ctx, m.Value); err != nil {
			logger.Warn("Skipping result event at offset %d: %v", m.Offset, err)
		}
	}
}

func (c *ResultConsumer) handle(ctx context.Context, value []byte) error {
	var event ResultEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode result event: %w", err)
	}
	if event.MatchID <= 0 {
		return errors.New("result event without match id")
	}

	n, err := c.handler.OnResultReported(ctx, event.MatchID)
	if err != nil {
		return fmt.Errorf("purge match %d: %w", event.MatchID, err)
	}
	logger.Debug("Result event for match %d purged %d messages", event.MatchID, n)
	return nil
}

func (c *ResultConsumer) Close() error {
	return c.reader.Close()
}
