package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"telegram-storefront-bot/internal/dialog"
	"telegram-storefront-bot/internal/domain"
	"telegram-storefront-bot/internal/domain/ports/repository"
)

var _ repository.DialogueRepository = (*DialogueRepo)(nil)

// DialogueRepo persists dialogue state in Redis, one JSON document per
// chat. Writes are whole-document SETs with no expiry: the conversation
// must survive worker restarts, and the store may still expire keys on
// its own policy.
type DialogueRepo struct {
	client  RedisClient
	botName string
}

func NewDialogueRepo(client RedisClient, botName string) *DialogueRepo {
	return &DialogueRepo{client: client, botName: botName}
}

// Keys carry the bot username so two workers sharing one Redis never
// collide on the same chat id.
func (r *DialogueRepo) key(chatID int64) string {
	return fmt.Sprintf("dialog:%s:%d", r.botName, chatID)
}

func (r *DialogueRepo) Get(ctx context.Context, chatID int64) (*dialog.State, error) {
	data, err := r.client.Get(ctx, r.key(chatID))
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("dialogue get %d: %w", chatID, err)
	}

	var st dialog.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("dialogue decode %d: %w", chatID, err)
	}
	return &st, nil
}

func (r *DialogueRepo) Set(ctx context.Context, chatID int64, state *dialog.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("dialogue encode %d: %w", chatID, err)
	}
	if err := r.client.Set(ctx, r.key(chatID), data, 0); err != nil {
		return fmt.Errorf("dialogue set %d: %w", chatID, err)
	}
	return nil
}
