package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const closeTimeout = 5 * time.Second

// Publisher pushes change events onto the feed.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Broker carries the change feed over Redis pub/sub so every server
// instance sees every mutation, whichever instance handled it.
type Broker struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithChannel sets the pub/sub channel name.
func WithChannel(channel string) BrokerOption {
	return func(b *Broker) {
		b.channel = channel
	}
}

// WithLogger sets the broker's logger.
func WithLogger(logger *zap.Logger) BrokerOption {
	return func(b *Broker) {
		b.logger = logger
	}
}

// NewBroker creates a broker on an existing Redis client. The caller
// retains ownership of the client.
func NewBroker(client *redis.Client, opts ...BrokerOption) *Broker {
	b := &Broker{
		client:  client,
		channel: "sprayshop:changes",
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish sends a change event to all subscribers.
func (b *Broker) Publish(ctx context.Context, event ChangeEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish change event",
			zap.String("channel", b.channel),
			zap.String("entity", event.Entity),
			zap.Error(err))
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	b.logger.Debug("Published change event",
		zap.String("entity", event.Entity),
		zap.String("action", string(event.Action)),
		zap.String("entity_id", event.EntityID.String()))
	return nil
}

// Subscribe listens for change events and invokes callback for each one.
// The callback runs on the subscription goroutine so events are delivered
// in publish order; it must not block. Blocks until ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context, callback func(event ChangeEvent)) error {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	b.isRunning = true
	b.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancelFn = cancel
	b.mu.Unlock()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		b.mu.Lock()
		b.isRunning = false
		b.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Info("Subscribed to change feed", zap.String("channel", b.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			b.logger.Info("Change feed subscription stopped")
			b.mu.Lock()
			b.isRunning = false
			b.mu.Unlock()
			b.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("Change feed channel closed")
				b.mu.Lock()
				b.isRunning = false
				b.mu.Unlock()
				b.markDone()
				return nil
			}

			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Error("Failed to unmarshal change event",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			callback(event)
		}
	}
}

func (b *Broker) markDone() {
	b.doneOnce.Do(func() {
		close(b.doneCh)
	})
}

// Close stops the subscription, waiting briefly for it to unwind. The
// Redis client itself is left open for its owner.
func (b *Broker) Close() error {
	b.mu.Lock()
	cancelFn := b.cancelFn
	b.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-b.doneCh:
		case <-time.After(closeTimeout):
			b.logger.Warn("Timeout waiting for subscription to stop")
		}
	}
	return nil
}

var _ Publisher = (*Broker)(nil)

// NopPublisher discards events. Used where the feed is not wired, such
// as tests.
type NopPublisher struct{}

// Publish drops the event.
func (NopPublisher) Publish(ctx context.Context, event ChangeEvent) error {
	return nil
}

var _ Publisher = NopPublisher{}
