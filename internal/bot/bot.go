// Package bot is the Telegram quick-log surface: allowed users record
// reading progress and check their streak without opening the web app.
package bot

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"booklog/internal/storage"
)

// Bot represents the Telegram bot wrapper
type Bot struct {
	api      *tgbotapi.BotAPI
	store    storage.BookStore
	activity storage.ActivityLog

	// users maps allowed Telegram user IDs to library owner IDs.
	users map[int64]string

	states   map[int64]*ConversationState
	statesMu sync.RWMutex
	logger   *zap.Logger
}

// ConversationState tracks the state of multi-step commands
type ConversationState struct {
	Command string
	Step    int
	BookUid string
}

// NewBot creates a new Telegram bot
func NewBot(token string, store storage.BookStore, activity storage.ActivityLog, users map[int64]string, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:      api,
		store:    store,
		activity: activity,
		users:    users,
		states:   make(map[int64]*ConversationState),
		logger:   logger,
	}, nil
}

// newTestBot builds a bot without a Telegram API connection
func newTestBot(store storage.BookStore, activity storage.ActivityLog, users map[int64]string, logger *zap.Logger) *Bot {
	return &Bot{
		store:    store,
		activity: activity,
		users:    users,
		states:   make(map[int64]*ConversationState),
		logger:   logger,
	}
}

// sendText sends a plain message to a chat
func (b *Bot) sendText(chatID int64, text string) {
	if b.api == nil {
		return // For testing
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) state(userID int64) *ConversationState {
	b.statesMu.RLock()
	defer b.statesMu.RUnlock()
	return b.states[userID]
}

func (b *Bot) setState(userID int64, s *ConversationState) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	if s == nil {
		delete(b.states, userID)
		return
	}
	b.states[userID] = s
}
