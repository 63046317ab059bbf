// Package consumer confirms orders once their OrderPlaced event has been
// delivered through Kafka.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const groupID = "storefront-order-confirmation"

var errSkipped = errors.New("message skipped")

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	repo   repository.StatusUpdater
	reader MessageReader
	logger *zap.Logger
}

func NewConsumer(repo repository.StatusUpdater, topic string, logger *zap.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		repo:   repo,
		reader: reader,
		logger: logger.With(zap.String("component", "order_consumer"), zap.String("topic", topic)),
	}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.logger.Error("error reading message", zap.Error(err))
		return
	}

	if err := c.handle(ctx, m); err != nil && !errors.Is(err, errSkipped) {
		c.logger.Error("failed to confirm order",
			zap.String("key", string(m.Key)),
			zap.Int64("offset", m.Offset),
			zap.Error(err))
	}
}

// handle confirms the order named by an OrderPlaced message. Redelivered
// messages find the order already confirmed and change nothing.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	if eventType(m) != domain.EventTypeOrderPlaced {
		return errSkipped
	}

	var event domain.OrderPlaced
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.logger.Warn("error parsing message", zap.Error(err))
		return errSkipped
	}

	changed, err := c.repo.UpdateOrderStatus(ctx, event.OrderID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.logger.Warn("order from event not found, skipping", zap.String("order_id", event.OrderID.String()))
		return errSkipped
	}
	if err != nil {
		return fmt.Errorf("confirm order %s: %w", event.OrderID, err)
	}

	if changed {
		c.logger.Info("order confirmed",
			zap.String("order_id", event.OrderID.String()),
			zap.String("code", event.Code))
	} else {
		c.logger.Debug("order already past pending", zap.String("order_id", event.OrderID.String()))
	}
	return nil
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
