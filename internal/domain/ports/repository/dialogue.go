package repository

import (
	"context"

	"telegram-storefront-bot/internal/dialog"
)

// DialogueRepository persists one dialogue document per chat. The store
// is last-write-wins; every Set replaces the whole document.
type DialogueRepository interface {
	// Get returns the dialogue state for a chat, or domain.ErrNotFound
	// when the session has never been seen (or expired externally).
	Get(ctx context.Context, chatID int64) (*dialog.State, error)
	Set(ctx context.Context, chatID int64, state *dialog.State) error
}
