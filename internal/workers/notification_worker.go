package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/events"
	"github.com/yoockh/yoojob/internal/models"
)

// ApplicationEventHandler turns an application event into notifications.
type ApplicationEventHandler interface {
	HandleApplicationEvent(ctx context.Context, ev models.ApplicationEvent) error
}

// NotificationWorkerPool drains the application events stream with a
// consumer group, so each event is handled by exactly one worker.
type NotificationWorkerPool struct {
	Redis      *redis.Client
	Handler    ApplicationEventHandler
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	client streamClient
}

// streamClient is the part of *redis.Client the pool uses.
type streamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

func (p *NotificationWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Handler == nil {
		return errors.New("NotificationWorkerPool missing dependency: Redis/Handler must be set")
	}
	p.defaults()
	if p.client == nil {
		p.client = p.Redis
	}

	_ = p.client.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *NotificationWorkerPool) defaults() {
	if p.Stream == "" {
		p.Stream = events.ApplicationStream
	}
	if p.Group == "" {
		p.Group = events.NotificationGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
}

func (p *NotificationWorkerPool) runConsumer(ctx context.Context, consumer string) {
	p.drainPending(ctx, consumer)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		p.process(ctx, res)
	}
}

// drainPending replays entries delivered to this consumer name but never
// acked, e.g. when the previous process died mid-batch.
func (p *NotificationWorkerPool) drainPending(ctx context.Context, consumer string) {
	for ctx.Err() == nil {
		res, err := p.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, "0"},
			Count:    10,
			Block:    -1,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				p.Logger.WithError(err).WithField("consumer", consumer).Warn("pending replay failed")
			}
			return
		}
		if p.process(ctx, res) == 0 {
			return
		}
	}
}

func (p *NotificationWorkerPool) process(ctx context.Context, res []redis.XStream) int {
	n := 0
	for _, stream := range res {
		for _, msg := range stream.Messages {
			p.handleMsg(ctx, msg)
			// acked even when handling failed, see handleMsg logs
			_ = p.client.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			n++
		}
	}
	return n
}

func (p *NotificationWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	log := p.Logger.WithField("redis_id", msg.ID)

	ev, err := events.DecodeApplication(msg.Values)
	if err != nil {
		log.WithError(err).Warn("undecodable application event")
		return
	}
	log = log.WithFields(logrus.Fields{
		"type":           ev.Type,
		"application_id": ev.ApplicationID,
		"job_id":         ev.JobID,
	})

	if err := p.Handler.HandleApplicationEvent(ctx, ev); err != nil {
		log.WithError(err).Error("notification failed")
		return
	}
	log.Debug("notification sent")
}

// Inline delivers application events synchronously, for deployments
// running without Redis.
type Inline struct {
	Handler ApplicationEventHandler
	Logger  *logrus.Logger
}

func (i Inline) PublishApplication(ctx context.Context, ev models.ApplicationEvent) error {
	err := i.Handler.HandleApplicationEvent(ctx, ev)
	if err != nil && i.Logger != nil {
		i.Logger.WithError(err).WithField("type", ev.Type).Error("notification failed")
	}
	return err
}

var _ streamClient = (*redis.Client)(nil)
