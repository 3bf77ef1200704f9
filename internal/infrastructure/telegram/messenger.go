package telegram

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"ArxivDigest/internal/ports"
)

// Messenger sends message units to a Telegram chat through the Bot API.
type Messenger struct {
	bot  *tele.Bot
	chat *tele.Chat
}

var _ ports.Messenger = (*Messenger)(nil)

// NewMessenger validates the token against the Bot API and binds the target
// chat. Token problems surface here, before the run starts.
func NewMessenger(token string, chatID int64) (*Messenger, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Messenger{bot: bot, chat: &tele.Chat{ID: chatID}}, nil
}

// Send posts one unit as a plain-text message.
func (m *Messenger) Send(ctx context.Context, unit string) error {
	if unit == "" {
		return nil
	}
	if _, err := m.bot.Send(m.chat, unit); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
