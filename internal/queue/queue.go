// Package queue is the hand-off between concurrent traffic-check workers and
// the single chat delivery loop.
package queue

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// ErrClosed is returned by Dequeue when the context ends before an item
// arrives.
var ErrClosed = errors.New("delivery queue closed")

// Sender delivers one text message to a chat. The bot implements this.
type Sender interface {
	SendText(chatID int64, text string) error
}

// DeliveryQueue is a bounded FIFO safe for many producers and one consumer.
type DeliveryQueue struct {
	items  chan models.OutboundMessage
	logger *zap.Logger
}

func New(size int, logger *zap.Logger) *DeliveryQueue {
	return &DeliveryQueue{
		items:  make(chan models.OutboundMessage, size),
		logger: logger,
	}
}

// Enqueue adds a message without ever blocking the caller. The buffer is far
// larger than any realistic burst; if it is somehow full the message is
// dropped with an error log rather than stalling a worker.
func (q *DeliveryQueue) Enqueue(chatID int64, text string) {
	select {
	case q.items <- models.OutboundMessage{ChatID: chatID, Text: text}:
	default:
		q.logger.Error("delivery queue full, dropping message",
			zap.Int64("chat_id", chatID))
	}
}

// Dequeue blocks until a message is available or ctx ends.
func (q *DeliveryQueue) Dequeue(ctx context.Context) (models.OutboundMessage, error) {
	select {
	case <-ctx.Done():
		return models.OutboundMessage{}, ErrClosed
	case msg := <-q.items:
		return msg, nil
	}
}

// Run drains the queue into sender until ctx ends. A failed send is logged
// and dropped; the loop never retries and never stops on delivery errors.
func (q *DeliveryQueue) Run(ctx context.Context, sender Sender) {
	for {
		msg, err := q.Dequeue(ctx)
		if err != nil {
			q.logger.Info("delivery loop stopping")
			return
		}
		if err := sender.SendText(msg.ChatID, msg.Text); err != nil {
			q.logger.Error("failed to deliver message",
				zap.Error(err),
				zap.Int64("chat_id", msg.ChatID))
		}
	}
}
