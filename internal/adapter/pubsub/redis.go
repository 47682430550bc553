package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"treasury-desk/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "treasury:events"

var _ event.Publisher = (*RedisPublisher)(nil)

// RedisPublisher fans change events out to every API instance.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// RedisSubscriber feeds events from the channel into a local handler
// (normally watch.Hub.Notify).
type RedisSubscriber struct {
	rdb     redis.UniversalClient
	channel string
	handle  func(event.Event)
	log     *zap.Logger
}

func NewRedisSubscriber(rdb redis.UniversalClient, channel string, handle func(event.Event), log *zap.Logger) *RedisSubscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisSubscriber{rdb: rdb, channel: channel, handle: handle, log: log}
}

// Start subscribes and returns once Redis has confirmed the subscription.
// Messages are consumed until ctx is cancelled.
func (s *RedisSubscriber) Start(ctx context.Context) error {
	ps := s.rdb.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.log.Info("subscribed to change events", zap.String("channel", s.channel))

	go s.listen(ctx, ps)
	return nil
}

func (s *RedisSubscriber) listen(ctx context.Context, ps *redis.PubSub) {
	defer ps.Close()
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("change event subscriber stopping")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e event.Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				s.log.Warn("drop malformed event", zap.Error(err))
				continue
			}
			s.handle(e)
		}
	}
}
