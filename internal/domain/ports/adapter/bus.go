package adapter

import "context"

// Bus is the shared publish/subscribe channel family between the backend
// and the bot workers. Delivery is at-most-once per subscriber with no
// acknowledgement; subscribers tolerate loss and duplicates.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of raw payloads. The channel closes
	// when ctx is canceled or the connection is lost for good.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Channel naming shared with the backend publisher.
const (
	// NotifyChannelPrefix + bot username = per-worker channel.
	NotifyChannelPrefix = "notify:"
	// ManagerChannel is the single global administrative channel.
	ManagerChannel = "notify:manager"
)

// NotifyChannel returns the per-bot-identity channel name.
func NotifyChannel(botName string) string { return NotifyChannelPrefix + botName }
