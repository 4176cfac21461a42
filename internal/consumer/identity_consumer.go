package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/Eursukkul/stay-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// UserDeleted is the identity service's notice that an account is gone.
type UserDeleted struct {
	UserID string `json:"user_id"`
}

type IdentityConsumer struct {
	purge   service.PurgeService
	timeout time.Duration
}

func NewIdentityConsumer(purge service.PurgeService) *IdentityConsumer {
	return &IdentityConsumer{purge: purge, timeout: 30 * time.Second}
}

// Start handles messages until msgs is closed.
func (ic *IdentityConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			ic.handleMessage(msg)
		}
		logger.Log.Info("identity channel closed, stopping consumer")
	}()
}

func (ic *IdentityConsumer) handleMessage(msg amqp.Delivery) {
	var event UserDeleted
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Log.Warnf("identity consumer: unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	event.UserID = strings.TrimSpace(event.UserID)
	if event.UserID == "" {
		logger.Log.Warn("identity consumer: message without user_id")
		msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ic.timeout)
	defer cancel()

	res, err := ic.purge.PurgeUser(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAttribute) {
			msg.Nack(false, false)
			return
		}
		logger.Log.Errorf("identity consumer: purge user %s: %v", event.UserID, err)
		msg.Nack(false, true) // requeue
		return
	}

	logger.Log.Infof("identity consumer: purged user %s (%d listings, %d bookings, %d reviews)",
		event.UserID, res.Listings, res.Bookings, res.Reviews)
	msg.Ack(false)
}
