package redis

import (
	"context"

	"telegram-storefront-bot/internal/domain/ports/adapter"
)

var _ adapter.Bus = (*Bus)(nil)

// Bus adapts Redis pub/sub to the adapter.Bus port. Redis pub/sub is
// fire-and-forget; a subscriber that is down misses messages, which is
// within the at-most-once delivery contract.
type Bus struct {
	client RedisClient
}

func NewBus(client RedisClient) *Bus {
	return &Bus{client: client}
}

func (b *Bus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload)
}

func (b *Bus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	sub := b.client.Subscribe(ctx, channel)

	// Force the subscription onto the wire before returning so callers
	// know the channel is live.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
