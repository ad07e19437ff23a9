package notifications

import (
	"context"
	"encoding/json"
	"log"
	"time"

	m "davidgram_services/src/models"

	"github.com/redis/go-redis/v9"
)

// Channel carries engagement payloads to whatever delivery transport is
// subscribed; this service only publishes.
const Channel = "notifications"

const dispatchTimeout = 5 * time.Second

type Store interface {
	CreateNotification(ctx context.Context, notification *m.EngagementNotification) error
}

// Trigger records engagement notifications and fans them out over Redis.
// Notify returns before any of that happens: the trigger is a best-effort
// side channel and must never delay or fail the interaction that fired it.
type Trigger struct {
	Store Store
	RDB   *redis.Client
}

func NewTrigger(store Store, rdb *redis.Client) *Trigger {
	return &Trigger{Store: store, RDB: rdb}
}

func (t *Trigger) Notify(notification m.EngagementNotification) {
	go t.dispatch(notification)
}

// dispatch runs detached from the request that triggered it, on its own
// context, after the primary write has already committed.
func (t *Trigger) dispatch(notification m.EngagementNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := t.Store.CreateNotification(ctx, &notification); err != nil {
		log.Printf("Adding to notification table error: %v", err)
		return
	}

	if t.RDB == nil {
		return
	}

	jsonPayload, err := json.MarshalIndent(notification, "", "\t")
	if err != nil {
		log.Print(err)
		return
	}

	if err := t.RDB.Publish(ctx, Channel, jsonPayload).Err(); err != nil {
		log.Print(err)
	}
}
