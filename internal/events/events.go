package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/yoockh/yoojob/internal/models"
)

const (
	ApplicationStream = "applications:stream"
	NotificationGroup = "notification-workers"
)

func UserMessagesChannel(userID string) string {
	return "user:" + userID + ":messages"
}

// Publisher hands application lifecycle events to the notification workers.
type Publisher interface {
	PublishApplication(ctx context.Context, ev models.ApplicationEvent) error
}

// Broadcaster pushes a freshly stored message to both participants' live sockets.
type Broadcaster interface {
	BroadcastMessage(ctx context.Context, m *models.Message) error
}

type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) PublishApplication(ctx context.Context, ev models.ApplicationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: ApplicationStream,
		MaxLen: 100000,
		Approx: true,
		Values: map[string]any{
			"type":    ev.Type,
			"payload": string(payload),
		},
	}).Err()
}

func (b *RedisBus) BroadcastMessage(ctx context.Context, m *models.Message) error {
	payload, err := json.Marshal(map[string]any{
		"type":    "message",
		"message": m,
	})
	if err != nil {
		return err
	}
	for _, userID := range []string{m.RecipientID, m.SenderID} {
		if err := b.rdb.Publish(ctx, UserMessagesChannel(userID), payload).Err(); err != nil {
			return err
		}
	}
	return nil
}

// DecodeApplication reads back an event written by PublishApplication.
func DecodeApplication(values map[string]any) (models.ApplicationEvent, error) {
	var ev models.ApplicationEvent
	raw, _ := values["payload"].(string)
	err := json.Unmarshal([]byte(raw), &ev)
	return ev, err
}

// Nop drops everything; used when Redis is not configured.
type Nop struct{}

func (Nop) PublishApplication(context.Context, models.ApplicationEvent) error { return nil }
func (Nop) BroadcastMessage(context.Context, *models.Message) error        { return nil }
